package domain

import "time"

// Payment is an immutable record of a single donation. ID doubles as the
// idempotency key: recording the same ID twice is rejected and never
// double-counts into the campaign accumulator. Amount is in minor currency
// units and must be positive.
type Payment struct {
	ID            string
	CampaignID    string
	DonatorEmail  string
	Amount        int64
	DonorCountry  string
	CreatedAt     time.Time
}
