package notify

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/llmdocs/internal/config"
	derrors "git.home.luguber.info/inful/llmdocs/internal/foundation/errors"
	"git.home.luguber.info/inful/llmdocs/internal/metrics"
	"git.home.luguber.info/inful/llmdocs/internal/pipeline"
)

type published struct {
	subject string
	msg     Message
}

type fakePublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{subject: subject, msg: m})
	return nil
}

func TestForwarder_PublishesBusEvents(t *testing.T) {
	pub := &fakePublisher{}
	fwd := NewForwarder(pub, "docs.events", nil)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fwd.now = func() time.Time { return fixed }

	bus := pipeline.NewBus()
	fwd.Attach(bus)

	require.NoError(t, bus.Publish(pipeline.DocumentOptimized{RunID: "r1", Path: "guide/intro.md", Tokens: 42, FrontmatterStatus: "parsed"}))
	require.NoError(t, bus.Publish(pipeline.DocumentFailed{RunID: "r1", Path: "bad.md", Err: errors.New("boom")}))
	require.NoError(t, bus.Publish(pipeline.RunCompleted{Report: &pipeline.Report{
		RunID: "r1", Trigger: "cli", Tokens: 42, Outcome: metrics.RunPartial, Revision: "abc123",
	}}))

	require.Len(t, pub.msgs, 3)

	assert.Equal(t, "docs.events.DocumentOptimized", pub.msgs[0].subject)
	assert.Equal(t, Message{
		Event: "DocumentOptimized", RunID: "r1", Path: "guide/intro.md",
		Tokens: 42, FrontmatterStatus: "parsed", Timestamp: fixed,
	}, pub.msgs[0].msg)

	assert.Equal(t, "docs.events.DocumentFailed", pub.msgs[1].subject)
	assert.Equal(t, "boom", pub.msgs[1].msg.Error)

	assert.Equal(t, "docs.events.RunCompleted", pub.msgs[2].subject)
	assert.Equal(t, "partial", pub.msgs[2].msg.Outcome)
	assert.Equal(t, "abc123", pub.msgs[2].msg.Revision)
	assert.Equal(t, "cli", pub.msgs[2].msg.Trigger)
}

func TestForwarder_PublishError(t *testing.T) {
	fwd := NewForwarder(&fakePublisher{err: errors.New("no responders")}, "x", nil)
	err := fwd.Handle(pipeline.DocumentRemoved{Path: "a.md"})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryRuntime))
}

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.NotifyConfig{}, nil)
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryConfig))

	var c *Connection
	assert.NoError(t, c.Close())
}
