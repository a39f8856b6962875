package timesheet

import "time"

// Customer owns projects. Timezone and country are informational defaults
// used when the customer was auto-created during an import.
type Customer struct {
	ID       int64
	Name     string
	Comment  string
	Timezone string
	Country  string
}

// Project belongs to exactly one customer. CustomerName is denormalized by
// store queries for name-based disambiguation and export; it is never
// persisted on its own.
type Project struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	Name         string
	Comment      string
}

// Activity is either global (ProjectID == nil) or scoped to one project.
type Activity struct {
	ID        int64
	ProjectID *int64
	Name      string
	Comment   string
}

type User struct {
	ID       int64
	Username string
	Email    string
	Password string
	Timezone string
}

type Tag struct {
	ID   int64
	Name string
}

// Entry is the persisted timesheet record. Begin/End are always set after
// time-window resolution; Duration is their delta in seconds and never
// negative. The *Name fields are denormalized by list queries for export.
type Entry struct {
	ID           int64
	UserID       int64
	ProjectID    int64
	ActivityID   int64
	Begin        time.Time
	End          time.Time
	Duration     int
	Description  string
	Rate         *float64
	HourlyRate   *float64
	FixedRate    *float64
	Exported     bool
	Tags         []Tag
	Username     string
	CustomerName string
	ProjectName  string
	ActivityName string
}

// SetHourlyRate sets the hourly rate and clears any fixed rate.
func (e *Entry) SetHourlyRate(rate float64) {
	e.HourlyRate = &rate
	e.FixedRate = nil
}

// SetFixedRate sets the fixed rate and clears any hourly rate.
func (e *Entry) SetFixedRate(rate float64) {
	e.FixedRate = &rate
	e.HourlyRate = nil
}
