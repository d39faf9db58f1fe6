package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeferred(t *testing.T) {
	rec := &Recorder{}

	t.Run("plain context delivers at once", func(t *testing.T) {
		Send(context.Background(), rec, DependencyAdded, NewPayload("a"))
		assert.Equal(t, []string{DependencyAdded}, rec.Names())
	})

	t.Run("deferred context queues until flushed", func(t *testing.T) {
		deferred := &Recorder{}
		ctx, d := Defer(context.Background())
		Send(ctx, deferred, InstanceCompleted, NewPayload("a"))
		Send(ctx, deferred, DependencyRemoved, NewPayload("a"))

		assert.Empty(t, deferred.Names())
		assert.Equal(t, 2, d.Len())

		d.Flush(context.Background())
		assert.Equal(t, []string{InstanceCompleted, DependencyRemoved}, deferred.Names())
		assert.Zero(t, d.Len())

		d.Flush(context.Background())
		assert.Len(t, deferred.Names(), 2, "flushing twice delivers once")
	})

	t.Run("unflushed notifications are dropped", func(t *testing.T) {
		dropped := &Recorder{}
		ctx, _ := Defer(context.Background())
		Send(ctx, dropped, InstanceUncompleted, NewPayload("a"))
		assert.Empty(t, dropped.Names())
	})
}
