package domain

import "time"

// Pet represents a listed animal available for adoption.
type Pet struct {
	ID               string
	Name             string
	Category         string
	Age              string
	Location         string
	ShortDescription string
	LongDescription  string
	ImageURL         string
	OwnerEmail       string
	Adopted          bool
	DateAdded        time.Time
}

// PetFilter narrows pet listing queries. Zero values match everything.
type PetFilter struct {
	Query    string // case-insensitive substring match on name
	Category string
}
