package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock reports wall time in Loc. Calendar-day analytics depend on the
// location, so a nil Loc falls back to time.Local rather than UTC.
type SystemClock struct {
	Loc *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now().In(time.Local)
	}
	return time.Now().In(c.Loc)
}
