// Copyright 2025 Veridex Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package frequency resolves recurrence descriptors to concrete fire times.
// All computation is in UTC. Resolution is pure: for a fixed now the result
// is deterministic, and the resolved instant is always strictly after now.
//
// Descriptor grammar (case-sensitive prefixes):
//
//	once                     explicit target supplied out-of-band
//	daily@HH:MM              next occurrence of that UTC time
//	weekly@D,HH:MM           weekday D, 0=Sunday .. 6=Saturday
//	monthly@N,HH:MM          day-of-month N
//	every_{N}_minutes        fixed interval from last fire
//	every_{N}_hours          fixed interval from last fire
//	cron:<expr>              5-field cron expression, evaluated in UTC
package frequency

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron"
)

// ErrInvalidDescriptor marks a descriptor that failed to parse.
var ErrInvalidDescriptor = errors.New("invalid frequency descriptor")

// Kind discriminates the descriptor forms.
type Kind int

const (
	KindOnce Kind = iota
	KindDaily
	KindWeekly
	KindMonthly
	KindInterval
	KindCron
)

// Frequency is a parsed, validated recurrence descriptor.
type Frequency struct {
	Kind       Kind
	Hour       int
	Minute     int
	Weekday    time.Weekday
	DayOfMonth int
	Interval   time.Duration
	CronExpr   string

	schedule cron.Schedule
}

// Once reports whether this descriptor fires a single time.
func (f *Frequency) Once() bool {
	return f.Kind == KindOnce
}

// Parse validates a descriptor and returns its parsed form.
// Malformed descriptors fail here, before they ever reach the scheduler.
func Parse(descriptor string) (*Frequency, error) {
	switch {
	case descriptor == "once":
		return &Frequency{Kind: KindOnce}, nil

	case strings.HasPrefix(descriptor, "daily@"):
		h, m, err := parseClock(strings.TrimPrefix(descriptor, "daily@"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		return &Frequency{Kind: KindDaily, Hour: h, Minute: m}, nil

	case strings.HasPrefix(descriptor, "weekly@"):
		day, h, m, err := parseDayClock(strings.TrimPrefix(descriptor, "weekly@"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("%w: %q: weekday must be 0..6", ErrInvalidDescriptor, descriptor)
		}
		return &Frequency{Kind: KindWeekly, Weekday: time.Weekday(day), Hour: h, Minute: m}, nil

	case strings.HasPrefix(descriptor, "monthly@"):
		day, h, m, err := parseDayClock(strings.TrimPrefix(descriptor, "monthly@"))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		if day < 1 || day > 31 {
			return nil, fmt.Errorf("%w: %q: day-of-month must be 1..31", ErrInvalidDescriptor, descriptor)
		}
		return &Frequency{Kind: KindMonthly, DayOfMonth: day, Hour: h, Minute: m}, nil

	case strings.HasPrefix(descriptor, "every_"):
		interval, err := parseInterval(descriptor)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		return &Frequency{Kind: KindInterval, Interval: interval}, nil

	case strings.HasPrefix(descriptor, "cron:"):
		expr := strings.TrimPrefix(descriptor, "cron:")
		sched, err := cron.ParseStandard(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidDescriptor, descriptor, err)
		}
		return &Frequency{Kind: KindCron, CronExpr: expr, schedule: sched}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDescriptor, descriptor)
}

// Validate reports whether a descriptor is well-formed.
func Validate(descriptor string) error {
	_, err := Parse(descriptor)
	return err
}

// ResolveNext resolves a recurrent descriptor to its next fire time after now.
// The `once` form carries its target out-of-band and is rejected here.
func ResolveNext(descriptor string, now time.Time) (time.Time, error) {
	f, err := Parse(descriptor)
	if err != nil {
		return time.Time{}, err
	}
	return f.Next(now)
}

// Next computes the next fire time strictly after now, in UTC.
func (f *Frequency) Next(now time.Time) (time.Time, error) {
	now = now.UTC()
	switch f.Kind {
	case KindDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(), f.Hour, f.Minute, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case KindWeekly:
		days := (int(f.Weekday) - int(now.Weekday()) + 7) % 7
		next := time.Date(now.Year(), now.Month(), now.Day(), f.Hour, f.Minute, 0, 0, time.UTC).AddDate(0, 0, days)
		if !next.After(now) {
			next = next.AddDate(0, 0, 7)
		}
		return next, nil

	case KindMonthly:
		next := monthlyCandidate(now.Year(), now.Month(), f.DayOfMonth, f.Hour, f.Minute)
		for !next.After(now) {
			y, m := nextMonth(next.Year(), next.Month())
			next = monthlyCandidate(y, m, f.DayOfMonth, f.Hour, f.Minute)
		}
		return next, nil

	case KindInterval:
		return now.Add(f.Interval), nil

	case KindCron:
		return f.schedule.Next(now), nil
	}
	return time.Time{}, fmt.Errorf("descriptor `once` has no recurrent next fire time")
}

// monthlyCandidate returns day N of the given month, or the first month at or
// after it that actually contains day N (skips short months for N=29..31).
func monthlyCandidate(year int, month time.Month, day, hour, minute int) time.Time {
	for {
		t := time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
		if t.Day() == day {
			return t
		}
		year, month = nextMonth(year, month)
	}
}

func nextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// parseClock parses "HH:MM".
func parseClock(s string) (int, int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, fmt.Errorf("bad hour %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, fmt.Errorf("bad minute %q", parts[1])
	}
	return h, m, nil
}

// parseDayClock parses "D,HH:MM".
func parseDayClock(s string) (int, int, int, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, 0, fmt.Errorf("expected D,HH:MM, got %q", s)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("bad day %q", parts[0])
	}
	h, m, err := parseClock(parts[1])
	if err != nil {
		return 0, 0, 0, err
	}
	return day, h, m, nil
}

// parseInterval parses "every_{N}_minutes" and "every_{N}_hours".
func parseInterval(s string) (time.Duration, error) {
	rest := strings.TrimPrefix(s, "every_")
	var unit time.Duration
	var num string
	switch {
	case strings.HasSuffix(rest, "_minutes"):
		unit = time.Minute
		num = strings.TrimSuffix(rest, "_minutes")
	case strings.HasSuffix(rest, "_hours"):
		unit = time.Hour
		num = strings.TrimSuffix(rest, "_hours")
	default:
		return 0, fmt.Errorf("expected every_{N}_minutes or every_{N}_hours")
	}
	n, err := strconv.Atoi(num)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("bad interval count %q", num)
	}
	return time.Duration(n) * unit, nil
}
