package contextWaitGroup

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// CWG runs loops sharing one context,
// the first loop to return an error cancels the others.
type CWG struct {
	wg     sync.WaitGroup
	Ctx    context.Context
	Cancel context.CancelFunc

	mu  sync.Mutex
	err error
}

func New(parent context.Context) *CWG {
	ctx, cancel := context.WithCancel(parent)
	return &CWG{Ctx: ctx, Cancel: cancel}
}

func (c *CWG) WithSignal(signals ...os.Signal) (stop context.CancelFunc) {
	c.Ctx, stop = signal.NotifyContext(c.Ctx, signals...)
	return
}

func (c *CWG) Go(f func(context.Context) error) {
	ctx := c.Ctx
	c.wg.Go(func() {
		err := f(ctx)
		if err == nil {
			return
		}
		c.mu.Lock()
		if c.err == nil {
			c.err = err
		}
		c.mu.Unlock()
		c.Cancel()
	})
}

// Wait returns the first error.
func (c *CWG) Wait() error {
	c.wg.Wait()
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
