// Package schedule derives the bookable week of the meeting room.  Every
// function is a pure function of the time value passed in, so a grid
// computed twice on the same calendar day is identical and nothing can go
// stale across midnight.
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for slot addresses.
const DateLayout = "2006-01-02"

// Weekdays lists the bookable days in grid order.
var Weekdays = [...]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Clock supplies the current time.  Callers pass Now() into the pure
// functions of this package.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.  Useful for tests and for
// rendering the grid of an arbitrary week.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// WeekDay is one column of the weekly grid.
type WeekDay struct {
	Name    string `json:"name"`
	Date    string `json:"date"`
	IsToday bool   `json:"isToday"`
}

// Monday returns midnight of the Monday starting the week that contains
// now.  Sunday belongs to the week that is ending, not the next one.
func Monday(now time.Time) time.Time {
	offset := (int(now.Weekday()) + 6) % 7
	y, m, d := now.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location())
}

// Week returns the five weekdays, Monday first, of the week containing now.
func Week(now time.Time) []WeekDay {
	monday := Monday(now)
	today := now.Format(DateLayout)
	days := make([]WeekDay, 0, len(Weekdays))
	for i, wd := range Weekdays {
		d := monday.AddDate(0, 0, i)
		date := d.Format(DateLayout)
		days = append(days, WeekDay{Name: wd.String(), Date: date, IsToday: date == today})
	}
	return days
}

// TimeLabels returns the hourly labels from openingHour through
// closingHour inclusive, formatted HH:00.  It returns nil when the range
// is empty.
func TimeLabels(openingHour, closingHour int) []string {
	if closingHour < openingHour {
		return nil
	}
	labels := make([]string, 0, closingHour-openingHour+1)
	for h := openingHour; h <= closingHour; h++ {
		labels = append(labels, FormatHour(h))
	}
	return labels
}

// FormatHour renders an hour of the day as a slot time label.
func FormatHour(hour int) string {
	return fmt.Sprintf("%02d:00", hour)
}

// Grid is the addressable slot space of one week.
type Grid struct {
	Days  []WeekDay `json:"days"`
	Times []string  `json:"times"`
}

// NewGrid builds the grid for the week containing now.
func NewGrid(now time.Time, openingHour, closingHour int) Grid {
	return Grid{Days: Week(now), Times: TimeLabels(openingHour, closingHour)}
}

// HasDate reports whether date is one of the grid's weekdays.
func (g Grid) HasDate(date string) bool {
	for _, d := range g.Days {
		if d.Date == date {
			return true
		}
	}
	return false
}

// HasTime reports whether label is one of the grid's hourly labels.
func (g Grid) HasTime(label string) bool {
	for _, t := range g.Times {
		if t == label {
			return true
		}
	}
	return false
}

// Contains reports whether (date, label) is a slot of this week.
func (g Grid) Contains(date, label string) bool {
	return g.HasDate(date) && g.HasTime(label)
}

// Len returns the number of slots in the grid.
func (g Grid) Len() int { return len(g.Days) * len(g.Times) }

// ValidDate reports whether s is a well-formed calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
