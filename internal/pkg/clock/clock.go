package clock

import "time"

// Clock abstracts time so expiry can be driven from tests.
type Clock interface {
	Now() time.Time
}

// System reads the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now().UTC() }
