// Package archive decodes gzipped log archives written to object
// storage. An archive body is a JSON document carrying its entries in
// a top-level "Records" array, the layout CloudTrail and similar AWS
// audit trails use.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// recordsField is the top-level field holding the entry list.
const recordsField = "Records"

// timestampField is the entry-embedded event time, RFC 3339 formatted.
const timestampField = "eventTime"

// DecompressError reports malformed compression framing.
type DecompressError struct {
	Err error
}

func (e *DecompressError) Error() string {
	return fmt.Sprintf("decompress archive: %v", e.Err)
}

func (e *DecompressError) Unwrap() error {
	return e.Err
}

// ParseError reports a decompressed body that is not valid JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse archive: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Decompress gunzips the raw archive bytes.
func Decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressError{Err: err}
	}
	defer zr.Close()

	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, &DecompressError{Err: err}
	}
	return plain, nil
}

// Records parses the decompressed archive body and returns its entries.
// A body with no Records field parses to zero entries, not an error.
func Records(data []byte) ([]map[string]interface{}, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	raw, ok := doc[recordsField]
	if !ok {
		return nil, nil
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &ParseError{Err: err}
	}
	return entries, nil
}

// Timestamp extracts the entry-embedded event time. The second return
// is false when the entry has no parseable eventTime.
func Timestamp(entry map[string]interface{}) (time.Time, bool) {
	raw, ok := entry[timestampField].(string)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
