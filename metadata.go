package logbook

import "context"

type ctxKey int

const (
	metadataKey ctxKey = 0
)

var (
	// MetadataKeyRequestID is the key for the transport request id (set by the http middleware)
	MetadataKeyRequestID = "requestId"
	// MetadataKeyRemoteAddr is the key for the calling client address (optional)
	MetadataKeyRemoteAddr = "remoteAddr"
)

// GetMetadataValue gets a metadata value from the context if it exists
func GetMetadataValue(ctx context.Context, key string) any {
	m, ok := ctx.Value(metadataKey).(*Document)
	if ok {
		return m.Get(key)
	}
	return nil
}

// SetMetadataValues sets metadata key value pairs in the context
func SetMetadataValues(ctx context.Context, data map[string]any) context.Context {
	m := ExtractMetadata(ctx)
	_ = m.SetAll(data)
	return context.WithValue(ctx, metadataKey, m)
}

// ExtractMetadata extracts metadata from the context and returns it
func ExtractMetadata(ctx context.Context) *Document {
	m, ok := ctx.Value(metadataKey).(*Document)
	if ok {
		return m
	}
	return NewDocument()
}
