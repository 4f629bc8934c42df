// Package recurrence parses and expands the simple repeat patterns used by
// calendar events. A pattern is a frequency keyword with optional
// parameters, e.g. "weekly", "daily;interval=2", "yearly;until=2030-12-31".
package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
	Yearly
)

func (f Freq) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	}
	return "unknown"
}

type Rule struct {
	Freq     Freq
	Interval int
	Until    *time.Time
}

// Parse reads a pattern string. The frequency keyword comes first; the
// optional interval and until parameters follow, semicolon-separated in any
// order.
func Parse(s string) (Rule, error) {
	rule := Rule{Interval: 1}
	parts := strings.Split(strings.TrimSpace(strings.ToLower(s)), ";")
	if len(parts) == 0 || parts[0] == "" {
		return rule, fmt.Errorf("empty recurrence pattern")
	}

	switch parts[0] {
	case "daily":
		rule.Freq = Daily
	case "weekly":
		rule.Freq = Weekly
	case "monthly":
		rule.Freq = Monthly
	case "yearly":
		rule.Freq = Yearly
	default:
		return rule, fmt.Errorf("unknown recurrence frequency: %q", parts[0])
	}

	for _, part := range parts[1:] {
		key, value, found := strings.Cut(part, "=")
		if !found {
			return rule, fmt.Errorf("malformed recurrence parameter: %q", part)
		}
		switch key {
		case "interval":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return rule, fmt.Errorf("invalid recurrence interval: %q", value)
			}
			rule.Interval = n
		case "until":
			t, err := time.Parse("2006-01-02", value)
			if err != nil {
				return rule, fmt.Errorf("invalid recurrence until date: %q", value)
			}
			// Until is inclusive of the whole day.
			end := t.Add(24*time.Hour - time.Nanosecond)
			rule.Until = &end
		default:
			return rule, fmt.Errorf("unknown recurrence parameter: %q", key)
		}
	}
	return rule, nil
}

func (r Rule) String() string {
	var b strings.Builder
	b.WriteString(r.Freq.String())
	if r.Interval > 1 {
		fmt.Fprintf(&b, ";interval=%d", r.Interval)
	}
	if r.Until != nil {
		fmt.Fprintf(&b, ";until=%s", r.Until.Format("2006-01-02"))
	}
	return b.String()
}

// Occurrence is one generated instance of a recurring event.
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// Expand generates the occurrences of a recurring event that overlap
// [rangeStart, rangeEnd). eventStart and eventEnd define the first
// occurrence and its duration.
func Expand(rule Rule, eventStart, eventEnd, rangeStart, rangeEnd time.Time) []Occurrence {
	duration := eventEnd.Sub(eventStart)
	if rule.Interval < 1 {
		rule.Interval = 1
	}

	// Cap iterations so a malformed rule cannot spin forever.
	const maxIterations = 10000

	var results []Occurrence
	current := eventStart
	for i := 0; i < maxIterations; i++ {
		if rule.Until != nil && current.After(*rule.Until) {
			break
		}
		if !current.Before(rangeEnd) {
			break
		}
		occEnd := current.Add(duration)
		if occEnd.After(rangeStart) {
			results = append(results, Occurrence{Start: current, End: occEnd})
		}

		switch rule.Freq {
		case Daily:
			current = current.AddDate(0, 0, rule.Interval)
		case Weekly:
			current = current.AddDate(0, 0, 7*rule.Interval)
		case Monthly:
			current = current.AddDate(0, rule.Interval, 0)
		case Yearly:
			current = current.AddDate(rule.Interval, 0, 0)
		}
	}
	return results
}
