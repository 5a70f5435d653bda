package eventpublisher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pscheid92/statuspulse/internal/domain"
)

// Sink is a named publish target.
type Sink struct {
	Name      string
	Publisher domain.Publisher
}

// FanoutPublisher implements domain.Publisher by composing the WebSocket
// publisher with the optional broker mirrors. Every sink receives every
// message; a failing sink does not stop the others.
type FanoutPublisher struct {
	sinks []Sink
}

func New(sinks ...Sink) *FanoutPublisher {
	return &FanoutPublisher{sinks: sinks}
}

// Sinks returns the configured sink names in publish order.
func (f *FanoutPublisher) Sinks() []string {
	names := make([]string, len(f.sinks))
	for i, s := range f.sinks {
		names[i] = s.Name
	}
	return names
}

func (f *FanoutPublisher) Publish(ctx context.Context, topic domain.Topic, payload []byte) error {
	switch len(f.sinks) {
	case 0:
		return nil
	case 1:
		return f.publishTo(ctx, f.sinks[0], topic, payload)
	}

	errs := make([]error, len(f.sinks))
	var wg sync.WaitGroup
	for i, sink := range f.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.publishTo(ctx, sink, topic, payload)
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (f *FanoutPublisher) publishTo(ctx context.Context, sink Sink, topic domain.Topic, payload []byte) error {
	if err := sink.Publisher.Publish(ctx, topic, payload); err != nil {
		return fmt.Errorf("sink %s: %w", sink.Name, err)
	}
	return nil
}
