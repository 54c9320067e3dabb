package scheduler

import "time"

// Timer is the single armed-timer primitive the scheduler uses.
type Timer interface {
	Stop() bool
}

// Clock abstracts time so tests can drive task firing without sleeping.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall-clock implementation.
func SystemClock() Clock { return systemClock{} }
