package utils

import "time"

// Clock supplies the current time. Validation and timestamping depend on it
// so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// RealClock is the production Clock backed by the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
