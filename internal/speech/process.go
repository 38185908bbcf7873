package speech

import (
	"context"
	"fmt"
	"os/exec"
	"sync"
)

// Commander runs helper programs. Engines take one so tests can replace
// the operating system.
type Commander interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	Start(ctx context.Context, name string, args ...string) (Playback, error)
	LookPath(name string) (string, error)
}

// ExecCommander runs real processes.
type ExecCommander struct{}

func (ExecCommander) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

func (ExecCommander) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Start launches the process detached from ctx: playback outlives the call
// that started it and ends through Stop.
func (ExecCommander) Start(_ context.Context, name string, args ...string) (Playback, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", name, err)
	}
	p := &processPlayback{cmd: cmd, done: make(chan error, 1)}
	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		stopped := p.stopped
		p.mu.Unlock()
		if stopped {
			err = nil
		}
		p.done <- err
	}()
	return p, nil
}

type processPlayback struct {
	cmd     *exec.Cmd
	done    chan error
	mu      sync.Mutex
	stopped bool
}

func (p *processPlayback) Done() <-chan error { return p.done }

func (p *processPlayback) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.stopped = true
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
}

// OnDone runs fn after pb finishes and returns a Playback reporting the
// same result.
func OnDone(pb Playback, fn func()) Playback {
	out := &chainedPlayback{inner: pb, done: make(chan error, 1)}
	go func() {
		err := <-pb.Done()
		fn()
		out.done <- err
	}()
	return out
}

type chainedPlayback struct {
	inner Playback
	done  chan error
}

func (c *chainedPlayback) Done() <-chan error { return c.done }
func (c *chainedPlayback) Stop()              { c.inner.Stop() }
