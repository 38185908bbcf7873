// Package cleanup collects the resources a kozh command opens (store
// connections, the session, the log file) and releases them once the
// command returns, newest first.
package cleanup

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/oukeidos/kozh/internal/logger"
)

type hook struct {
	name string
	run  func() error
}

var (
	mu      sync.Mutex
	pending []hook
)

// Register queues fn for RunAll.
func Register(fn func() error) {
	add("hook", fn)
}

// RegisterCloser queues c.Close, labelling any failure with name.
func RegisterCloser(name string, c io.Closer) {
	if c == nil {
		return
	}
	add(name, c.Close)
}

func add(name string, fn func() error) {
	if fn == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	pending = append(pending, hook{name: name, run: fn})
}

// Pending reports how many hooks are queued.
func Pending() int {
	mu.Lock()
	defer mu.Unlock()
	return len(pending)
}

// RunAll drains the queue in reverse registration order. Every hook runs
// even when an earlier one fails or panics.
func RunAll() error {
	mu.Lock()
	queued := pending
	pending = nil
	mu.Unlock()

	var errs []error
	for i := len(queued) - 1; i >= 0; i-- {
		if err := queued[i].call(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("cleanup failed: %w", errors.Join(errs...))
}

func (h hook) call() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close %s: panic: %v", h.name, r)
		}
	}()
	if err := h.run(); err != nil {
		return fmt.Errorf("close %s: %w", h.name, err)
	}
	logger.Debug("Released resource", "resource", h.name)
	return nil
}
