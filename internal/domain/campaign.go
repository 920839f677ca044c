package domain

import "time"

// DonationCampaign is a fundraising drive owned by a user. DonatedAmount is
// in minor currency units and is mutated only through the store's atomic
// increment when a payment is recorded.
type DonationCampaign struct {
	ID               string
	UserEmail        string
	PetName          string
	ImageURL         string
	ShortDescription string
	LongDescription  string
	MaxDonation      int64
	DonatedAmount    int64
	Paused           bool
	LastDonationDate time.Time
	CreatedAt        time.Time
}
