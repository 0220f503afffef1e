package book

import "context"

// BookCache stores serialized BookDetail payloads by book ID.
// Implementations never fail the caller: errors degrade to a miss.
//
// A fill is fenced by Version: callers read it before loading from the
// store and pass it to Set, which drops the payload if an Invalidate ran in
// between.
type BookCache interface {
	Get(ctx context.Context, bookID string) ([]byte, bool)
	Version(ctx context.Context, bookID string) (int64, bool)
	Set(ctx context.Context, bookID string, version int64, data []byte)
	Invalidate(ctx context.Context, bookID string)
}

// NoopCache is used when caching is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool)    { return nil, false }
func (NoopCache) Version(context.Context, string) (int64, bool) { return 0, false }
func (NoopCache) Set(context.Context, string, int64, []byte)    {}
func (NoopCache) Invalidate(context.Context, string)            {}
