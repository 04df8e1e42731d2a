package editor

import "time"

// Task is a deferred unit of work that can be called off
type Task interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed. History owns at most one
// scheduled task at a time.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Task
}

// TimerScheduler schedules on the runtime timer. f runs on its own
// goroutine.
type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) Task {
	return time.AfterFunc(d, f)
}
