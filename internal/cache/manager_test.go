package cache

import (
	"testing"
	"time"
)

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Register(NewLRU[int](4, time.Minute))

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked with no cleanup loop running")
	}
}

func TestManagerSweepCleansExpired(t *testing.T) {
	c := NewLRU[int](4, 5*time.Millisecond)
	c.Set("a", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.After(time.Second)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatalf("size = %d, expired entry never swept", c.Size())
		case <-time.After(5 * time.Millisecond):
		}
	}
}
