package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestIdleFIFO(t *testing.T) {
	l := New()
	var got []int
	for i := 1; i <= 3; i++ {
		i := i
		l.DoWhenIdle(func() { got = append(got, i) })
	}

	if !l.RunIdle() {
		t.Fatal("RunIdle() = false, want true")
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if l.RunIdle() {
		t.Error("second RunIdle() ran something")
	}
}

func TestIdleQueuedDuringPassRunsNextPass(t *testing.T) {
	l := New()
	var got []string
	l.DoWhenIdle(func() {
		got = append(got, "first")
		l.DoWhenIdle(func() { got = append(got, "requeued") })
	})

	l.RunIdle()
	if diff := cmp.Diff([]string{"first"}, got); diff != "" {
		t.Errorf("after one pass (-want +got):\n%s", diff)
	}
	if l.IdlePending() != 1 {
		t.Errorf("IdlePending() = %d, want 1", l.IdlePending())
	}

	if passes := l.DrainIdle(); passes != 1 {
		t.Errorf("DrainIdle() = %d passes, want 1", passes)
	}
	if diff := cmp.Diff([]string{"first", "requeued"}, got); diff != "" {
		t.Errorf("after drain (-want +got):\n%s", diff)
	}
}

func TestCancelIdle(t *testing.T) {
	l := New()
	ran := false
	id := l.DoWhenIdle(func() { ran = true })

	if !l.CancelIdle(id) {
		t.Fatal("CancelIdle() = false for pending work")
	}
	if l.CancelIdle(id) {
		t.Error("second CancelIdle() = true")
	}
	l.DrainIdle()
	if ran {
		t.Error("cancelled idle work ran")
	}
}

func TestCancelIdleDuringPass(t *testing.T) {
	l := New()
	var second IdleID
	ran := false
	l.DoWhenIdle(func() { l.CancelIdle(second) })
	second = l.DoWhenIdle(func() { ran = true })

	l.RunIdle()
	if ran {
		t.Error("work cancelled earlier in the same pass still ran")
	}
}

func TestIdlePanicKeepsRestQueued(t *testing.T) {
	l := New()
	var got []string
	l.DoWhenIdle(func() { panic("boom") })
	l.DoWhenIdle(func() { got = append(got, "second") })
	l.DoWhenIdle(func() { got = append(got, "third") })

	func() {
		defer func() {
			if r := recover(); r != "boom" {
				t.Errorf("recover() = %v, want boom", r)
			}
		}()
		l.RunIdle()
	}()
	if got := l.IdlePending(); got != 2 {
		t.Fatalf("IdlePending() after the panic = %d, want 2", got)
	}

	if passes := l.DrainIdle(); passes != 1 {
		t.Errorf("DrainIdle() = %d passes, want 1", passes)
	}
	if diff := cmp.Diff([]string{"second", "third"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if l.IdlePending() != 0 {
		t.Errorf("IdlePending() = %d after drain", l.IdlePending())
	}
}

func TestTimers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	l := New(WithClock(clock.now))

	var got []string
	l.After(20*time.Millisecond, func() { got = append(got, "b") })
	l.After(10*time.Millisecond, func() { got = append(got, "a") })
	cancelled := l.After(15*time.Millisecond, func() { got = append(got, "cancelled") })

	if n := l.RunTimers(); n != 0 {
		t.Errorf("RunTimers() before deadline fired %d", n)
	}
	if !l.CancelTimer(cancelled) {
		t.Error("CancelTimer() = false for pending timer")
	}

	clock.advance(25 * time.Millisecond)
	if n := l.RunTimers(); n != 2 {
		t.Errorf("RunTimers() fired %d, want 2", n)
	}
	if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
	if l.CancelTimer(cancelled) {
		t.Error("CancelTimer() = true for a removed timer")
	}
}

func TestStepPrefersPostedOverIdle(t *testing.T) {
	l := New()
	var got []string
	l.DoWhenIdle(func() { got = append(got, "idle") })
	l.Post(func() { got = append(got, "posted") })

	l.Step()
	if diff := cmp.Diff([]string{"posted"}, got); diff != "" {
		t.Errorf("first step (-want +got):\n%s", diff)
	}
	l.Step()
	if diff := cmp.Diff([]string{"posted", "idle"}, got); diff != "" {
		t.Errorf("second step (-want +got):\n%s", diff)
	}
}

func TestRunPostFromGoroutines(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	const n = 50
	count := 0
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Post(func() {
				count++
				if count == n {
					l.Stop()
				}
			})
		}()
	}

	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	wg.Wait()
	if count != n {
		t.Errorf("count = %d, want %d", count, n)
	}
}

func TestRunFiresTimer(t *testing.T) {
	l := New()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fired := false
	l.After(5*time.Millisecond, func() {
		fired = true
		l.Stop()
	})
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !fired {
		t.Error("timer did not fire")
	}
}

func TestRunContextCancel(t *testing.T) {
	l := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
