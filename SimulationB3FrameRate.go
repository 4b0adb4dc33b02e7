package box3d

import (
	"time"
)

/// Supplies the application's current frames per second to Update.
type B3FrameRateSource interface {
	GetFrameRate() float64
}

/// A frame rate that never changes.
type B3FixedFrameRate float64

func (fps B3FixedFrameRate) GetFrameRate() float64 {
	return float64(fps)
}

const (
	B3_defaultTargetFrameRate = 60.0
	b3FrameClockSmoothing     = 0.1
)

/// Measures the frame rate from the interval between successive calls,
/// smoothed with an exponential moving average. Until two readings exist it
/// reports the target rate.
type B3FrameClock struct {
	M_target   float64
	M_average  float64
	M_last     time.Time
	M_now      func() time.Time
	M_readings int
}

func NewB3FrameClock() *B3FrameClock {
	return NewB3FrameClockWithTarget(B3_defaultTargetFrameRate, time.Now)
}

func NewB3FrameClockWithTarget(target float64, now func() time.Time) *B3FrameClock {
	B3Assert(target > 0)
	if now == nil {
		now = time.Now
	}
	return &B3FrameClock{
		M_target:  target,
		M_average: target,
		M_now:     now,
	}
}

func (clock *B3FrameClock) GetFrameRate() float64 {
	t := clock.M_now()
	defer func() {
		clock.M_last = t
		clock.M_readings++
	}()

	if clock.M_readings == 0 {
		return clock.M_target
	}

	dt := t.Sub(clock.M_last).Seconds()
	if dt <= 0 {
		return clock.M_average
	}

	fps := 1.0 / dt
	if clock.M_readings == 1 {
		clock.M_average = fps
	} else {
		clock.M_average += b3FrameClockSmoothing * (fps - clock.M_average)
	}
	return clock.M_average
}

/// Clears the history. The next reading reports the target again.
func (clock *B3FrameClock) Reset() {
	clock.M_readings = 0
	clock.M_average = clock.M_target
}
