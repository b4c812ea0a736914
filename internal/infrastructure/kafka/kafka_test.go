package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/moringa-store/internal/infrastructure/store"
)

// fakeReader serves queued messages, then blocks until the context ends
type fakeReader struct {
	mu        sync.Mutex
	queue     []kafka.Message
	fetchErrs []error
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.fetchErrs) > 0 {
		err := r.fetchErrs[0]
		r.fetchErrs = r.fetchErrs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.queue) > 0 {
		msg := r.queue[0]
		r.queue = r.queue[1:]
		r.mu.Unlock()
		return msg, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

func TestEncodeMessage(t *testing.T) {
	event := store.Event{ID: "evt-1", AggregateID: "order-1", EventType: "OrderPlaced", Data: json.RawMessage(`{}`)}

	msg, err := encodeMessage("order-1", event)

	require.NoError(t, err)
	assert.Equal(t, "order-1", string(msg.Key))
	var decoded store.Event
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "evt-1", decoded.ID)
	assert.False(t, msg.Time.IsZero())
}

func TestEncodeMessage_Unencodable(t *testing.T) {
	_, err := encodeMessage("k", make(chan int))

	assert.Error(t, err)
}

func TestConsumer_HandlesAndCommits(t *testing.T) {
	r := &fakeReader{
		fetchErrs: []error{errors.New("broker unavailable")},
		queue: []kafka.Message{
			{Key: []byte("a"), Value: []byte("1"), Offset: 10},
			{Key: []byte("b"), Value: []byte("poison"), Offset: 11},
			{Key: []byte("c"), Value: []byte("3"), Offset: 12},
		},
	}
	c := newConsumer(r, nil)
	c.retryDelay = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var seen []string
	done := make(chan error, 1)
	go func() {
		done <- c.Consume(ctx, func(_ context.Context, key, value []byte) error {
			mu.Lock()
			seen = append(seen, string(key))
			mu.Unlock()
			if string(value) == "poison" {
				return errors.New("cannot decode")
			}
			return nil
		})
	}()

	require.Eventually(t, func() bool { return len(r.commits()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, []int64{10, 11, 12}, r.commits())
}
