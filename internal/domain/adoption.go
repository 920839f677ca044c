package domain

import "time"

// AdoptionStatus is the tri-state outcome of an adoption request. The
// string values are part of the wire contract consumed by existing clients.
type AdoptionStatus string

const (
	AdoptionPending  AdoptionStatus = "Pending"
	AdoptionAdopted  AdoptionStatus = "Adopted"
	AdoptionRejected AdoptionStatus = "Not Adopted"
)

// AdoptionRequest records one user's ask to adopt one pet. At most one
// request may exist per (UserEmail, PetID) pair.
type AdoptionRequest struct {
	ID            string
	UserEmail     string
	PetID         string
	PetOwnerEmail string
	PetName       string
	UserName      string
	UserPhone     string
	UserAddress   string
	Status        AdoptionStatus
	CreatedAt     time.Time
}
