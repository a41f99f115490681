package market

import (
	"fmt"
	"time"
)

// Session anchors bucket boundaries to a trading session's opening
// wall-clock time (e.g. 09:15 Asia/Kolkata) instead of midnight.
type Session struct {
	openHour   int
	openMinute int
	loc        *time.Location
}

// NewSession parses a "HH:MM" session open and an IANA timezone name.
func NewSession(open, timezone string) (Session, error) {
	var h, m int
	if _, err := fmt.Sscanf(open, "%d:%d", &h, &m); err != nil {
		return Session{}, fmt.Errorf("parse session open %q: %w", open, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Session{}, fmt.Errorf("session open out of range: %q", open)
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Session{}, fmt.Errorf("load session timezone: %w", err)
	}
	return Session{openHour: h, openMinute: m, loc: loc}, nil
}

// OpenOn returns the session open instant on t's calendar day.
func (s Session) OpenOn(t time.Time) time.Time {
	t = t.In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), s.openHour, s.openMinute, 0, 0, s.loc)
}

// BucketStart maps an event time to the canonical start of its bucket for
// the given duration. Pure; every timeframe goes through the same floor
// arithmetic so series sharing a duration multiple line up.
//
// Day-scale buckets start at the day's session open. Hour- and minute-scale
// buckets floor whole hours/minutes elapsed since session open to the
// duration. Pre-open event times clamp to the session open.
func (s Session) BucketStart(t time.Time, d time.Duration) time.Time {
	t = t.In(s.loc)
	open := s.OpenOn(t)
	if t.Before(open) {
		t = open
	}

	if d >= 24*time.Hour {
		return open
	}

	if d >= time.Hour {
		elapsed := int(t.Sub(open) / time.Hour)
		span := int(d / time.Hour)
		return open.Add(time.Duration(elapsed/span*span) * time.Hour)
	}

	elapsed := int(t.Sub(open) / time.Minute)
	span := int(d / time.Minute)
	return open.Add(time.Duration(elapsed/span*span) * time.Minute)
}

// SameTradingDay reports whether both instants fall on the same calendar
// day in the session's timezone.
func (s Session) SameTradingDay(a, b time.Time) bool {
	a, b = a.In(s.loc), b.In(s.loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
