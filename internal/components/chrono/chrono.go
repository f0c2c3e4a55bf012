package chrono

import "time"

// API is the interface that anything depending on the system clock should use.
type API interface {
	Now() time.Time
	Location() *time.Location
}

type StandardImpl struct {
	location *time.Location
}

// NewStandardImpl loads the named location, an empty name means UTC.
func NewStandardImpl(locationName string) (StandardImpl, error) {
	if locationName == "" {
		return StandardImpl{location: time.UTC}, nil
	}
	location, err := time.LoadLocation(locationName)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

func (s StandardImpl) Location() *time.Location {
	return s.location
}

// Fixed is a clock that is stuck at a single instant, used by tests.
type Fixed struct {
	At time.Time
}

func (f Fixed) Now() time.Time {
	return f.At
}

func (f Fixed) Location() *time.Location {
	if f.At.Location() == nil {
		return time.UTC
	}
	return f.At.Location()
}
