package config

import (
    "fmt"
    "time"
)

// SchedulerConfig controls the daily booking sweeps.
type SchedulerConfig struct {
    Enabled  bool
    RunAt    string        // wall clock "HH:MM" of the first run each day
    Interval time.Duration // cadence after the first run
    LockTTL  time.Duration // lease held in Redis while a sweep runs
    Prefix   string        // Redis key prefix for sweep leases
}

// LoadSchedulerConfig reads SWEEP_* variables with defaults.
func LoadSchedulerConfig() SchedulerConfig {
    cfg := SchedulerConfig{
        Enabled:  envBool("SWEEP_ENABLED", true),
        RunAt:    envStr("SWEEP_AT", "00:05"),
        Interval: envDur("SWEEP_INTERVAL", 24*time.Hour),
        LockTTL:  envDur("SWEEP_LOCK_TTL", 10*time.Minute),
        Prefix:   envStr("SWEEP_LOCK_PREFIX", "sweep"),
    }
    if cfg.Interval <= 0 {
        cfg.Interval = 24 * time.Hour
    }
    if _, _, err := cfg.Clock(); err != nil {
        cfg.RunAt = "00:05"
    }
    return cfg
}

// Clock splits RunAt into hour and minute.
func (c SchedulerConfig) Clock() (hour, minute int, err error) {
    t, err := time.Parse("15:04", c.RunAt)
    if err != nil {
        return 0, 0, fmt.Errorf("invalid SWEEP_AT %q: %w", c.RunAt, err)
    }
    return t.Hour(), t.Minute(), nil
}
