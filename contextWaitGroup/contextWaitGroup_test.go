package contextWaitGroup

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFirstErrorCancels(t *testing.T) {
	c := New(context.Background())
	boom := errors.New("boom")

	c.Go(func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	c.Go(func(context.Context) error {
		return boom
	})

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()
	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Fatalf("Wait() = %v, want boom", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("loops were not cancelled")
	}
}

func TestCancel(t *testing.T) {
	c := New(context.Background())
	for range 3 {
		c.Go(func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		})
	}
	c.Cancel()
	if err := c.Wait(); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
}
