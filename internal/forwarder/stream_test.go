package forwarder

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telhawk-systems/telhawk-bridge/internal/hec"
)

func changeRecord(id string) events.DynamoDBEventRecord {
	return events.DynamoDBEventRecord{
		EventID:   id,
		EventName: "INSERT",
		Change: events.DynamoDBStreamRecord{
			NewImage: map[string]events.DynamoDBAttributeValue{
				"pk": events.NewStringAttribute(id),
			},
		},
	}
}

func TestStreamHandle(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "")

	fc := newFakeCollector(t)
	fw := NewStream(fc.relay(), testForwarderConfig(), testLogger())

	event := events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{
			changeRecord("rec-1"),
			changeRecord("rec-2"),
			changeRecord("rec-3"),
		},
	}

	n, err := fw.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	// Whole batch in one network exchange
	assert.Equal(t, 1, fc.requestCount())

	sent := fc.sentEvents(t)
	require.Len(t, sent, 3)

	for i, want := range []string{"rec-1", "rec-2", "rec-3"} {
		ev := sent[i]
		assert.Equal(t, "serverless", ev.Host)
		assert.Equal(t, "test-source", ev.Source)
		assert.Equal(t, "aws:dynamodb", ev.SourceType)
		require.NotNil(t, ev.Time)

		// Record body survives the relay as-is
		assert.Equal(t, want, ev.Event["eventID"])
		assert.Equal(t, "INSERT", ev.Event["eventName"])
	}
}

func TestStreamHandle_EmptyBatch(t *testing.T) {
	fc := newFakeCollector(t)
	fw := NewStream(fc.relay(), testForwarderConfig(), testLogger())

	n, err := fw.Handle(context.Background(), events.DynamoDBEvent{})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, fc.requestCount())
}

func TestStreamHandle_AttachesEventTime(t *testing.T) {
	fc := newFakeCollector(t)
	fw := NewStream(fc.relay(), testForwarderConfig(), testLogger())

	fixed := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	fw.now = func() time.Time { return fixed }

	event := events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{changeRecord("rec-1")},
	}

	_, err := fw.Handle(context.Background(), event)
	require.NoError(t, err)

	sent := fc.sentEvents(t)
	require.Len(t, sent, 1)
	require.NotNil(t, sent[0].Time)
	assert.EqualValues(t, fixed.Unix(), *sent[0].Time)
}

func TestStreamHandle_FlushFailure(t *testing.T) {
	fc := newFakeCollector(t)
	fc.status = http.StatusBadRequest

	fw := NewStream(fc.relay(), testForwarderConfig(), testLogger())

	event := events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{changeRecord("rec-1")},
	}

	n, err := fw.Handle(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, 0, n)

	var transportErr *hec.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestStreamHandle_SourceFromFunctionName(t *testing.T) {
	t.Setenv("AWS_LAMBDA_FUNCTION_NAME", "telhawk-stream-forwarder")

	fc := newFakeCollector(t)
	fw := NewStream(fc.relay(), testForwarderConfig(), testLogger())

	event := events.DynamoDBEvent{
		Records: []events.DynamoDBEventRecord{changeRecord("rec-1")},
	}

	_, err := fw.Handle(context.Background(), event)
	require.NoError(t, err)

	sent := fc.sentEvents(t)
	require.Len(t, sent, 1)
	assert.Equal(t, "lambda:telhawk-stream-forwarder", sent[0].Source)
}
