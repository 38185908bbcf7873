package speech

import (
	"context"
	"sync"
)

// Fake records utterances. Playback finishes immediately with Result
// unless Hold is set, in which case it never reports completion.
type Fake struct {
	mu         sync.Mutex
	Err        error
	Result     error
	Hold       bool
	utterances []Utterance
	stopped    int
}

func (f *Fake) Speak(_ context.Context, u Utterance) (Playback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	f.utterances = append(f.utterances, u)
	pb := &fakePlayback{owner: f, done: make(chan error, 1)}
	if !f.Hold {
		pb.done <- f.Result
	}
	return pb, nil
}

func (f *Fake) Utterances() []Utterance {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Utterance, len(f.utterances))
	copy(out, f.utterances)
	return out
}

// Stops counts Stop calls across all playbacks.
func (f *Fake) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

type fakePlayback struct {
	owner *Fake
	done  chan error
	once  sync.Once
}

func (p *fakePlayback) Done() <-chan error { return p.done }

func (p *fakePlayback) Stop() {
	p.once.Do(func() {
		p.owner.mu.Lock()
		p.owner.stopped++
		p.owner.mu.Unlock()
	})
}
