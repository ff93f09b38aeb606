package models

import "time"

// SlotMetadata describes one stored app-data slot.
type SlotMetadata struct {
	Name      string    `json:"name"`
	Checksum  string    `json:"checksum"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}
