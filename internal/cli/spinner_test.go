package cli

import (
	"context"
	"testing"
	"time"
)

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(context.Background(), "Matching...")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("a stopped spinner is not cancelled")
	}
}

func TestSpinnerUpdate(t *testing.T) {
	s := newSpinner(context.Background(), "Matching...")
	s.Start()
	for i := range 5 {
		s.Update("iteration " + string(rune('0'+i)))
		time.Sleep(20 * time.Millisecond)
	}
	s.StopWithSuccess("done")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.message != "iteration 4" {
		t.Errorf("message = %q", s.message)
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, "Matching...")
	s.Start()
	cancel()
	time.Sleep(50 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after context cancellation")
	}
	s.StopWithError("canceled")
}
