package forwarder

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/telhawk-systems/telhawk-bridge/internal/archive"
	"github.com/telhawk-systems/telhawk-bridge/internal/config"
	"github.com/telhawk-systems/telhawk-bridge/internal/hec"
	"github.com/telhawk-systems/telhawk-bridge/internal/logging"
	"github.com/telhawk-systems/telhawk-bridge/internal/metrics"
	"github.com/telhawk-systems/telhawk-bridge/internal/objectstore"
)

// Archive forwards gzipped log archives announced by object-storage
// notifications. Every entry of every referenced archive goes into one
// relay batch, flushed once at the end of the invocation.
type Archive struct {
	relay *hec.Client
	store objectstore.Fetcher
	cfg   config.ForwarderConfig
	log   *logging.Logger
	now   func() time.Time
}

// NewArchive creates an Archive forwarder reading from store.
func NewArchive(relay *hec.Client, store objectstore.Fetcher, cfg config.ForwarderConfig, log *logging.Logger) *Archive {
	return &Archive{
		relay: relay,
		store: store,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Handle is the invocation entry point. Any fetch, decompress, or
// parse failure aborts the invocation before a flush is attempted.
func (f *Archive) Handle(ctx context.Context, event events.S3Event) (int, error) {
	id := invocationID(ctx)
	source := invocationSource(ctx, f.cfg.Source)

	batch := f.relay.NewBatch()
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key, err := decodeKey(record.S3.Object.Key)
		if err != nil {
			metrics.InvocationsFailed.WithLabelValues("archive", "decode_key").Inc()
			f.log.Error("bad object key in notification",
				logging.InvocationID(id),
				logging.Bucket(bucket),
				logging.Error(err),
			)
			return 0, err
		}

		entries, err := f.readArchive(ctx, bucket, key)
		if err != nil {
			f.log.Error("archive unreadable",
				logging.InvocationID(id),
				logging.Bucket(bucket),
				logging.Key(key),
				logging.Error(err),
			)
			return 0, err
		}

		for _, entry := range entries {
			t := f.now()
			if ts, ok := archive.Timestamp(entry); ok {
				t = ts
			}
			batch.Add(hec.Event{
				Time:       hec.EpochSeconds(t),
				Host:       f.cfg.Host,
				Source:     source,
				SourceType: archiveSourceType,
				Index:      f.cfg.Index,
				Event:      entry,
			})
		}
	}

	n, err := batch.Flush(ctx)
	if err != nil {
		metrics.InvocationsFailed.WithLabelValues("archive", "flush").Inc()
		f.log.Error("flush failed",
			logging.InvocationID(id),
			logging.Source(source),
			logging.Error(err),
		)
		return 0, err
	}

	metrics.RecordsForwarded.WithLabelValues("archive").Add(float64(n))
	f.log.Info("forwarded archive entries",
		logging.InvocationID(id),
		logging.Source(source),
		logging.Count(n),
		logging.Endpoint(f.relay.URL()),
	)
	return n, nil
}

// readArchive fetches, decompresses, and parses one archive object.
func (f *Archive) readArchive(ctx context.Context, bucket, key string) ([]map[string]interface{}, error) {
	data, err := f.store.Fetch(ctx, bucket, key)
	if err != nil {
		metrics.InvocationsFailed.WithLabelValues("archive", "fetch").Inc()
		return nil, err
	}

	plain, err := archive.Decompress(data)
	if err != nil {
		metrics.InvocationsFailed.WithLabelValues("archive", "decompress").Inc()
		return nil, err
	}

	entries, err := archive.Records(plain)
	if err != nil {
		metrics.InvocationsFailed.WithLabelValues("archive", "parse").Inc()
		return nil, err
	}
	return entries, nil
}

// decodeKey undoes the URL encoding notifications apply to object
// keys, including '+' for space.
func decodeKey(key string) (string, error) {
	decoded, err := url.QueryUnescape(key)
	if err != nil {
		return "", fmt.Errorf("decode object key %q: %w", key, err)
	}
	return decoded, nil
}
