package model

import "time"

// TeamMember is a crew member whose availability is tracked on the calendar.
type TeamMember struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
