// Package timeline derives planning-phase status for an event from
// wall-clock time. Status is never stored; every projection recomputes it
// from the current date.
package timeline

import (
	"sort"
	"time"

	"github.com/halvarsson/hemma/internal/model"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusCurrent   Status = "current"
	StatusUpcoming  Status = "upcoming"
)

// Step is one rendered milestone. EventDay marks the synthetic final step
// for the event date itself.
type Step struct {
	PhaseID     int64  `json:"phase_id,omitempty"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	WeeksBefore int    `json:"weeks_before"`
	Status      Status `json:"status"`
	EventDay    bool   `json:"event_day,omitempty"`
}

// Projection is the full derived timeline for an event.
type Projection struct {
	EventID    int64  `json:"event_id"`
	WeeksUntil int    `json:"weeks_until"`
	Steps      []Step `json:"steps"`
	Progress   int    `json:"progress"`
	Empty      bool   `json:"empty"`
}

// WeeksUntil returns the whole weeks between today and the event date,
// flooring toward negative infinity so a date 10 days out is 1 week and a
// date 3 days past is -1 week. Both instants are truncated to their UTC
// calendar day first.
func WeeksUntil(eventDate, today time.Time) int {
	e := truncateDay(eventDate)
	t := truncateDay(today)
	days := int(e.Sub(t).Hours() / 24)
	if days >= 0 {
		return days / 7
	}
	return -((-days + 6) / 7)
}

// PhaseStatus classifies a single phase against the current weeks-until
// count.
func PhaseStatus(weeksUntil, leadWeeks int) Status {
	switch {
	case weeksUntil < leadWeeks:
		return StatusCompleted
	case weeksUntil == leadWeeks:
		return StatusCurrent
	default:
		return StatusUpcoming
	}
}

// Project derives the timeline for an event: phases sorted furthest-out
// first (stable), each classified, plus a synthetic event-day step at the
// end. Progress is the share of elapsed lead time, clamped to [0,100].
func Project(event *model.Event, phases []model.TimelinePhase, now time.Time) Projection {
	weeksUntil := WeeksUntil(event.StartTime, now)

	sorted := make([]model.TimelinePhase, len(phases))
	copy(sorted, phases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeeksBefore > sorted[j].WeeksBefore
	})

	p := Projection{
		EventID:    event.ID,
		WeeksUntil: weeksUntil,
		Empty:      len(phases) == 0,
	}

	for _, phase := range sorted {
		p.Steps = append(p.Steps, Step{
			PhaseID:     phase.ID,
			Name:        phase.Name,
			Description: phase.Description,
			WeeksBefore: phase.WeeksBefore,
			Status:      PhaseStatus(weeksUntil, phase.WeeksBefore),
		})
	}

	// The event day itself is always the final step.
	p.Steps = append(p.Steps, Step{
		Name:        event.Title,
		WeeksBefore: 0,
		Status:      PhaseStatus(weeksUntil, 0),
		EventDay:    true,
	})

	p.Progress = progress(sorted, weeksUntil)
	return p
}

// progress maps elapsed lead time to a 0-100 bar width. A phase list whose
// maximum lead time is already behind us clamps to 100.
func progress(sorted []model.TimelinePhase, weeksUntil int) int {
	if len(sorted) == 0 {
		if weeksUntil <= 0 {
			return 100
		}
		return 0
	}
	maxLead := sorted[0].WeeksBefore
	if maxLead <= 0 {
		if weeksUntil <= 0 {
			return 100
		}
		return 0
	}
	pct := (maxLead - weeksUntil) * 100 / maxLead
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
