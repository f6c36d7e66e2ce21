package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	noop
	fields map[string]interface{}
}

func (r *recordingLogger) With(field string, value interface{}) Logger {
	next := map[string]interface{}{}
	for k, v := range r.fields {
		next[k] = v
	}
	next[field] = value
	return &recordingLogger{fields: next}
}

func TestFromContextReturnsNoopWhenUnset(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotNil(t, l)
	// Must not panic.
	l.Infow("no logger attached")
}

func TestTrackPersistsUpCallChain(t *testing.T) {
	root := &recordingLogger{fields: map[string]interface{}{}}
	ctx := With(context.Background(), root)

	func(ctx context.Context) {
		Track(ctx, "authz.effect", "DENY")
		Track(ctx, "authz.reason", "ownership mismatch")
	}(ctx)

	got := FromContext(ctx).(*recordingLogger)
	assert.Equal(t, "DENY", got.fields["authz.effect"])
	assert.Equal(t, "ownership mismatch", got.fields["authz.reason"])
}

func TestNamedAndWith(t *testing.T) {
	l := NewDevLogger()
	assert.NotNil(t, l.Named("authz"))
	assert.NotNil(t, l.With("collection", "orders"))
}
