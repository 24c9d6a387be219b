package domain

import "time"

// Shift is a single clock-in/clock-out record. OutTime is nil while the
// shift is still open.
type Shift struct {
	ID        int64
	UserID    int64
	InTime    time.Time
	OutTime   *time.Time
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed reports whether the shift has been clocked out.
func (s Shift) Completed() bool {
	return s.OutTime != nil
}

// Length is the worked duration. Open shifts have zero length.
func (s Shift) Length() time.Duration {
	if s.OutTime == nil {
		return 0
	}
	return s.OutTime.Sub(s.InTime)
}

// Hours is Length expressed in fractional hours.
func (s Shift) Hours() float64 {
	return s.Length().Hours()
}
