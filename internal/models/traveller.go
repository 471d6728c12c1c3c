package models

import "time"

// Traveller is the record written remotely after registration completes.
// It is assembled once by the registration orchestrator and never mutated
// by this module afterwards.
type Traveller struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Description  string    `json:"description"`
	DaysInCity   int       `json:"daysInCity"`
	Cities       []string  `json:"cities"`
	FileURLs     []string  `json:"fileUrls"`
	RegisteredAt time.Time `json:"registeredAt"`
}
