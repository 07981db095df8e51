package model

import "time"

// Occurrence is a single concrete instance of a calendar event, after
// recurrence expansion and time zone normalization. It is what the event
// lane places on the time axis.
type Occurrence struct {
	SourceID string // calendar source ID
	UID      string // iCalendar UID

	// InstanceKey uniquely identifies one occurrence of a recurring
	// event, derived from the local start time.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	// Start / End are in the view's time zone.
	Start time.Time
	End   time.Time
}

// Duration is End - Start.
func (o Occurrence) Duration() time.Duration { return o.End.Sub(o.Start) }
