package model

import "time"

// Source is a catalogue item an instance can be linked to: a group, a
// workshop, or an activity. It supplies the instance's display name.
type Source struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
