package auth

import (
	"fmt"
	"time"
)

// Lockout is a server-imposed login block.
type Lockout struct {
	Until   time.Time
	Message string
}

func (l *Lockout) Active(now time.Time) bool {
	return l != nil && now.Before(l.Until)
}

// Remaining is never negative.
func (l *Lockout) Remaining(now time.Time) time.Duration {
	if !l.Active(now) {
		return 0
	}
	return l.Until.Sub(now)
}

// Countdown renders the remaining time as m:ss.
func (l *Lockout) Countdown(now time.Time) string {
	remaining := l.Remaining(now)
	if remaining <= 0 {
		return ""
	}
	total := int(remaining / time.Second)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// parseUnblockTime accepts RFC 3339 or a zone-less local timestamp.
func parseUnblockTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", value, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}
