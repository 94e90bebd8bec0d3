package logging

import "log/slog"

// Common field names for consistent logging across the bridge functions.
const (
	FieldService      = "service"
	FieldInvocationID = "invocation_id"
	FieldSource       = "source"
	FieldSourceType   = "sourcetype"
	FieldBucket       = "bucket"
	FieldKey          = "key"
	FieldCount        = "count"
	FieldEndpoint     = "endpoint"
	FieldError        = "error"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// InvocationID returns a slog attribute for the Lambda request ID.
func InvocationID(id string) slog.Attr {
	return slog.String(FieldInvocationID, id)
}

// Source returns a slog attribute for the event source.
func Source(source string) slog.Attr {
	return slog.String(FieldSource, source)
}

// SourceType returns a slog attribute for the event sourcetype.
func SourceType(st string) slog.Attr {
	return slog.String(FieldSourceType, st)
}

// Bucket returns a slog attribute for an object store bucket.
func Bucket(bucket string) slog.Attr {
	return slog.String(FieldBucket, bucket)
}

// Key returns a slog attribute for an object store key.
func Key(key string) slog.Attr {
	return slog.String(FieldKey, key)
}

// Count returns a slog attribute for a record count.
func Count(n int) slog.Attr {
	return slog.Int(FieldCount, n)
}

// Endpoint returns a slog attribute for the collection endpoint URL.
func Endpoint(url string) slog.Attr {
	return slog.String(FieldEndpoint, url)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
