package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// ReminderConfig holds the daily reminder schedule: the local wall-clock time
// and the IANA timezone the sweep fires in. The schedule is static
// configuration, not computed.
type ReminderConfig struct {
	Hour     int
	Minute   int
	Location *time.Location
}

// NewReminderConfig creates reminder scheduling configuration from environment
// variables. It reads REMINDER_HOUR (default: 8), REMINDER_MINUTE (default: 0)
// and REMINDER_TIMEZONE (default: UTC).
func NewReminderConfig() (*ReminderConfig, error) {
	hour, err := envInt("REMINDER_HOUR", 8)
	if err != nil {
		return nil, err
	}
	if hour < 0 || hour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR out of range: %d", hour)
	}

	minute, err := envInt("REMINDER_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	if minute < 0 || minute > 59 {
		return nil, fmt.Errorf("REMINDER_MINUTE out of range: %d", minute)
	}

	tz := os.Getenv("REMINDER_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_TIMEZONE %q: %w", tz, err)
	}

	return &ReminderConfig{
		Hour:     hour,
		Minute:   minute,
		Location: loc,
	}, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return v, nil
}
