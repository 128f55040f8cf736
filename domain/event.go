package domain

import "time"

// Event is a volunteer event as shown in the event list and wall header.
type Event struct {
	ID          string
	Title       string
	Description string
	Location    string
	StartAt     time.Time
	EndAt       time.Time
	MemberCount int
	PostCount   int
}
