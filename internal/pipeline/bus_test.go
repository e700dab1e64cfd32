package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_PublishDeliversToSubscribers(t *testing.T) {
	b := NewBus()
	var got []string
	b.Subscribe(EventDocumentOptimized, func(e Event) error {
		got = append(got, "named:"+e.(DocumentOptimized).Path)
		return nil
	})
	b.SubscribeAll(func(e Event) error {
		got = append(got, "all:"+e.Name())
		return nil
	})
	b.Subscribe(EventDocumentOptimized, nil)

	assert.NoError(t, b.Publish(DocumentOptimized{Path: "a.md"}))
	assert.NoError(t, b.Publish(RunStarted{RunID: "r"}))

	assert.Equal(t, []string{"named:a.md", "all:DocumentOptimized", "all:RunStarted"}, got)
}

func TestBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	b := NewBus()
	boom := errors.New("boom")
	calls := 0
	b.Subscribe(EventRunCompleted, func(Event) error { calls++; return boom })
	b.Subscribe(EventRunCompleted, func(Event) error { calls++; return nil })

	err := b.Publish(RunCompleted{Report: &Report{}})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)
}

func TestBus_NilIsNoop(t *testing.T) {
	var b *Bus
	assert.NoError(t, b.Publish(IndexWritten{}))
}
