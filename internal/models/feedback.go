package models

import "github.com/google/uuid"

// Feedback is a note left about a customer
type Feedback struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
	Date string    `json:"date"`
}
