package box3d

import "time"

/// Timer for profiling.
type B3Timer struct {
	m_start time.Time
}

/// Constructor
func MakeB3Timer() B3Timer {
	return B3Timer{m_start: time.Now()}
}

/// Reset the timer.
func (timer *B3Timer) Reset() {
	timer.m_start = time.Now()
}

/// Get the time since construction or the last reset.
func (timer B3Timer) GetMilliseconds() float64 {
	return float64(time.Since(timer.m_start)) / float64(time.Millisecond)
}
