// Package availability turns a physician's weekly schedule templates into the
// concrete slots bookable on one calendar date.
package availability

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Reason explains why a slot cannot be booked.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonBooked        Reason = "booked"
	ReasonOutsideWindow Reason = "outside_window"
	ReasonPast          Reason = "past"
)

var (
	ErrInvalidDayOfWeek    = errors.New("day of week must be between 1 (Monday) and 7 (Sunday)")
	ErrInvalidWindow       = errors.New("start time must be before end time")
	ErrInvalidSlotDuration = errors.New("slot duration must be positive and fit inside the window")
)

// Template is a recurring weekly availability window.
type Template struct {
	ID          int
	PhysicianID uuid.UUID
	BranchID    int
	DayOfWeek   int
	Start       Clock
	End         Clock
	SlotMinutes int
	Active      bool
}

func (t Template) SlotDuration() time.Duration {
	return time.Duration(t.SlotMinutes) * time.Minute
}

// Validate checks the template invariants.
func (t Template) Validate() error {
	if t.DayOfWeek < 1 || t.DayOfWeek > 7 {
		return ErrInvalidDayOfWeek
	}
	if t.Start >= t.End {
		return ErrInvalidWindow
	}
	if t.SlotMinutes <= 0 || t.SlotDuration() > t.End.Sub(t.Start) {
		return ErrInvalidSlotDuration
	}
	return nil
}

// Overlaps reports whether two windows on the same weekday intersect.
func (t Template) Overlaps(other Template) bool {
	if t.DayOfWeek != other.DayOfWeek {
		return false
	}
	return t.Start < other.End && other.Start < t.End
}

// Booking is an existing appointment as seen by the resolver.
type Booking struct {
	PhysicianID uuid.UUID
	BranchID    int
	At          time.Time
	Cancelled   bool
}

// Query selects the physician, branch and calendar date to resolve. When
// NotBefore is set, slots starting before it are reported as past.
type Query struct {
	PhysicianID uuid.UUID
	BranchID    int
	Date        time.Time
	NotBefore   time.Time
}

type Slot struct {
	Start      Clock
	End        Clock
	Available  bool
	Reason     Reason
	TemplateID int
}

func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Result is the ordered slot list for one query. NoSchedule is set when no
// active template matched; Overlapping when two matching templates produced
// intersecting slots.
type Result struct {
	PhysicianID uuid.UUID
	BranchID    int
	Date        time.Time
	DayOfWeek   int
	Slots       []Slot
	NoSchedule  bool
	Overlapping bool
}

// Resolve builds the slot list for q from the given templates and bookings.
// Templates and bookings for other physicians, branches, weekdays or dates
// are ignored, as are inactive templates and cancelled bookings.
func Resolve(q Query, templates []Template, bookings []Booking) Result {
	result := Result{
		PhysicianID: q.PhysicianID,
		BranchID:    q.BranchID,
		Date:        q.Date,
		DayOfWeek:   ISOWeekday(q.Date),
	}

	matching := matchTemplates(q, result.DayOfWeek, templates)
	if len(matching) == 0 {
		result.NoSchedule = true
		result.Slots = []Slot{}
		return result
	}

	booked := bookedClocks(q, bookings)

	slots := make([]Slot, 0)
	for _, tpl := range matching {
		step := tpl.SlotDuration()
		for start := tpl.Start; start.Add(step) <= tpl.End; start = start.Add(step) {
			end := start.Add(step)
			slot := Slot{Start: start, End: end, Available: true, TemplateID: tpl.ID}
			switch {
			case anyWithin(booked, start, end):
				slot.Available = false
				slot.Reason = ReasonBooked
			case !q.NotBefore.IsZero() && start.On(q.Date).Before(q.NotBefore):
				slot.Available = false
				slot.Reason = ReasonPast
			}
			slots = append(slots, slot)
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].Start != slots[j].Start {
			return slots[i].Start < slots[j].Start
		}
		if slots[i].End != slots[j].End {
			return slots[i].End < slots[j].End
		}
		return slots[i].TemplateID < slots[j].TemplateID
	})

	for i := 1; i < len(slots); i++ {
		if slots[i].Start < slots[i-1].End && slots[i].TemplateID != slots[i-1].TemplateID {
			result.Overlapping = true
			break
		}
	}

	result.Slots = slots
	return result
}

// Check returns the slot starting at start. A start that no template produced
// yields an unavailable slot with ReasonOutsideWindow.
func (r Result) Check(start Clock) Slot {
	var found *Slot
	for i := range r.Slots {
		s := r.Slots[i]
		if s.Start != start {
			continue
		}
		if s.Available {
			return s
		}
		if found == nil {
			found = &r.Slots[i]
		}
	}
	if found != nil {
		return *found
	}
	return Slot{Start: start, End: start, Available: false, Reason: ReasonOutsideWindow}
}

// Available returns only the bookable slots, in order.
func (r Result) Available() []Slot {
	out := make([]Slot, 0, len(r.Slots))
	for _, s := range r.Slots {
		if s.Available {
			out = append(out, s)
		}
	}
	return out
}

func matchTemplates(q Query, dayOfWeek int, templates []Template) []Template {
	var out []Template
	for _, t := range templates {
		if !t.Active || t.DayOfWeek != dayOfWeek {
			continue
		}
		if t.PhysicianID != q.PhysicianID || t.BranchID != q.BranchID {
			continue
		}
		if t.Validate() != nil {
			continue
		}
		out = append(out, t)
	}
	return out
}

func bookedClocks(q Query, bookings []Booking) []Clock {
	var out []Clock
	for _, b := range bookings {
		if b.Cancelled || b.PhysicianID != q.PhysicianID || b.BranchID != q.BranchID {
			continue
		}
		at := b.At.In(q.Date.Location())
		if !sameDay(at, q.Date) {
			continue
		}
		out = append(out, ClockOf(at))
	}
	return out
}

// anyWithin reports whether any booked start lies in [start, end).
func anyWithin(booked []Clock, start, end Clock) bool {
	for _, c := range booked {
		if c >= start && c < end {
			return true
		}
	}
	return false
}
