package model

import "time"

// Scenario describes a hypothetical day submitted for a what-if
// prediction. It is immutable once built and only lives for a single
// prediction cycle.
type Scenario struct {
	Date          time.Time // calendar day, time portion ignored
	TempMax       float64   // daily maximum temperature in °C
	TempMin       float64   // daily minimum temperature in °C
	Precipitation float64   // daily precipitation sum in mm
	Holiday       bool      // public holiday flag
	Label         string    // optional preset label, informational only
}

// AvgTemp returns the midpoint of the daily temperature range.
func (s Scenario) AvgTemp() float64 {
	return (s.TempMax + s.TempMin) / 2
}

// Weekend reports whether the scenario falls on a Saturday or Sunday.
func (s Scenario) Weekend() bool {
	wd := s.Date.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayOfWeek returns the weekday as Monday=0..Sunday=6, matching the
// convention the training pipeline used.
func (s Scenario) DayOfWeek() int {
	return (int(s.Date.Weekday()) + 6) % 7
}
