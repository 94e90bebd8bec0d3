// Package forwarder implements the two invocation entry points of the
// bridge: change-record batches from a DynamoDB stream and gzipped
// archive notifications from S3. Both build one relay batch per
// invocation and flush it once.
package forwarder

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

// Sourcetypes attached to forwarded events, by log family.
const (
	streamSourceType  = "aws:dynamodb"
	archiveSourceType = "aws:cloudtrail"
)

// invocationSource derives the event source from the invocation
// identity, preferring the Lambda function name, then the invoked
// ARN, then the configured source.
func invocationSource(ctx context.Context, configured string) string {
	if name := os.Getenv("AWS_LAMBDA_FUNCTION_NAME"); name != "" {
		return "lambda:" + name
	}
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.InvokedFunctionArn != "" {
		return lc.InvokedFunctionArn
	}
	if configured != "" {
		return configured
	}
	return "bridge:" + uuid.NewString()
}

// invocationID returns the Lambda request ID for log correlation, or a
// generated one outside the Lambda runtime.
func invocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.NewString()
}
