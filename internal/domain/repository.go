package domain

import "context"

// UserRepository defines access methods for users.
type UserRepository interface {
	// Create inserts a new user. ErrUserExists is returned when the email
	// is already registered; no write happens in that case.
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]User, error)
	// PromoteToAdmin sets the user's role to Admin. Roles are never demoted.
	PromoteToAdmin(ctx context.Context, id string) error
}

// PetRepository handles persistence for pet listings.
type PetRepository interface {
	Create(ctx context.Context, pet *Pet) error
	GetByID(ctx context.Context, id string) (*Pet, error)
	Search(ctx context.Context, filter PetFilter) ([]Pet, error)
	ListByOwner(ctx context.Context, email string) ([]Pet, error)
	Update(ctx context.Context, pet *Pet) error
	MarkAdopted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// AdoptionRepository enforces the one-request-per-(user,pet) contract.
type AdoptionRepository interface {
	// Create inserts a request, failing with ErrAlreadyAdopted when the
	// (UserEmail, PetID) pair already has one. The check and the insert are
	// a single atomic store operation.
	Create(ctx context.Context, req *AdoptionRequest) error
	GetByID(ctx context.Context, id string) (*AdoptionRequest, error)
	ListByOwner(ctx context.Context, ownerEmail string) ([]AdoptionRequest, error)
	ListByRequester(ctx context.Context, userEmail string) ([]AdoptionRequest, error)
	// Decide accepts or rejects a single request, updating the pet's adopted
	// flag and the request status in one transaction. Accepting a request
	// closes every competing request for the same pet as Not Adopted.
	Decide(ctx context.Context, id string, accepted bool) error
}

// CampaignRepository handles donation campaign persistence.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *DonationCampaign) error
	GetByID(ctx context.Context, id string) (*DonationCampaign, error)
	ListAll(ctx context.Context) ([]DonationCampaign, error)
	ListByCreator(ctx context.Context, email string) ([]DonationCampaign, error)
	Update(ctx context.Context, campaign *DonationCampaign) error
	// Pause sets the paused flag. It is never cleared.
	Pause(ctx context.Context, id string) error
}

// PaymentRepository records donations and keeps campaign accumulators in sync.
type PaymentRepository interface {
	// Record inserts the payment and atomically adds its amount to the
	// owning campaign's donated total. Both writes share one transaction;
	// a duplicate payment ID fails with ErrDuplicatePayment and leaves the
	// accumulator untouched.
	Record(ctx context.Context, payment *Payment) error
	ListByCampaign(ctx context.Context, campaignID string) ([]Payment, error)
	ListByDonator(ctx context.Context, email string) ([]Payment, error)
}
