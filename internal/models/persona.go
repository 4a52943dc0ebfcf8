package models

import "time"

// Persona describes an author voice used to condition generation.
// Personas are read-only once created; editing means creating a new one.
type Persona struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Traits             []string  `json:"traits,omitempty"`
	Background         string    `json:"background,omitempty"`
	CommunicationStyle string    `json:"communication_style,omitempty"`
	// DerivedFrom links to the analysis artifact this persona was built
	// from, empty for manually authored personas.
	DerivedFrom string    `json:"derived_from,omitempty"`
	Created     time.Time `json:"created,omitempty"`
}
