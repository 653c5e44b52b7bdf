package testutil

import (
	"context"
	"sync"

	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/pubsub"
)

type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return errorx.New(errorx.NotImplemented, "Not implemented")
}

// RecordPublisher keeps every published pack.
type RecordPublisher struct {
	mu    sync.Mutex
	Packs map[string][]*pubsub.Pack
}

func (p *RecordPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Packs == nil {
		p.Packs = map[string][]*pubsub.Pack{}
	}
	p.Packs[topic] = append(p.Packs[topic], pack)
	return nil
}
