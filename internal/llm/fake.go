package llm

import (
	"context"
	"sync"
)

// Fake is a scripted Model for tests and offline hosts.
type Fake struct {
	mu sync.Mutex
	// Replies are returned in order; the last one repeats.
	Replies []string
	Err     error
	// Block, when set, holds every call until it is closed or ctx ends.
	Block    chan struct{}
	requests []Request
}

func (f *Fake) Generate(ctx context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	block := f.Block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	text := ""
	if len(f.Replies) > 0 {
		text = f.Replies[0]
		if len(f.Replies) > 1 {
			f.Replies = f.Replies[1:]
		}
	}
	return &Response{Text: text}, nil
}

// Requests returns a copy of every request seen so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}
