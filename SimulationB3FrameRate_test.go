package box3d_test

import (
	"math"
	"testing"
	"time"

	"github.com/ByteArena/box3d"
)

type fakeNow struct {
	t time.Time
}

func (f *fakeNow) now() time.Time {
	return f.t
}

func (f *fakeNow) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func TestFixedFrameRate(t *testing.T) {
	if got := box3d.B3FixedFrameRate(42).GetFrameRate(); got != 42 {
		t.Fatalf("GetFrameRate() = %v", got)
	}
}

func TestFrameClock(t *testing.T) {
	clock := &fakeNow{t: time.Unix(0, 0)}
	fc := box3d.NewB3FrameClockWithTarget(60, clock.now)

	if got := fc.GetFrameRate(); got != 60 {
		t.Fatalf("first reading = %v, want the target", got)
	}

	clock.advance(100 * time.Millisecond)
	if got := fc.GetFrameRate(); math.Abs(got-10) > 1e-9 {
		t.Fatalf("second reading = %v, want 10", got)
	}

	// Smoothed towards the new rate, not jumping to it.
	clock.advance(50 * time.Millisecond)
	got := fc.GetFrameRate()
	if got <= 10 || got >= 20 {
		t.Fatalf("smoothed reading = %v, want between 10 and 20", got)
	}

	// A stalled clock keeps the average.
	if again := fc.GetFrameRate(); again != got {
		t.Fatalf("zero interval changed the rate from %v to %v", got, again)
	}

	fc.Reset()
	if got := fc.GetFrameRate(); got != 60 {
		t.Fatalf("reading after Reset = %v, want the target", got)
	}
}
