package event

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	keys []string
	err  error
}

func (r *recorder) Publish(_ context.Context, key string, _ interface{}) error {
	r.keys = append(r.keys, key)
	return r.err
}

func TestEmit(t *testing.T) {
	r := &recorder{}
	Emit(context.Background(), r, BookCreated, BookEvent{BookID: "b1"})
	assert.Equal(t, []string{BookCreated}, r.keys)

	// failures are swallowed
	failing := &recorder{err: errors.New("broker down")}
	assert.NotPanics(t, func() {
		Emit(context.Background(), failing, ReviewCreated, ReviewEvent{})
	})

	assert.NotPanics(t, func() { Emit(context.Background(), nil, BookDeleted, nil) })
	assert.NoError(t, Noop{}.Publish(context.Background(), BookDeleted, nil))
}
