package handlers

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// In-memory repository fakes. The payment fake mirrors the store contract
// the handlers rely on: recording is all-or-nothing and the accumulator
// update is atomic with respect to concurrent callers.

type fakeUsers struct {
	mu      sync.Mutex
	byEmail map[string]*domain.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: make(map[string]*domain.User)}
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[user.Email]; ok {
		return domain.ErrUserExists
	}
	clone := *user
	f.byEmail[user.Email] = &clone
	return nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUsers) List(_ context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.User, 0, len(f.byEmail))
	for _, user := range f.byEmail {
		items = append(items, *user)
	}
	return items, nil
}

func (f *fakeUsers) PromoteToAdmin(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.byEmail {
		if user.ID == id {
			user.Role = domain.RoleAdmin
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakePets struct {
	mu   sync.Mutex
	byID map[string]*domain.Pet
}

func newFakePets() *fakePets {
	return &fakePets{byID: make(map[string]*domain.Pet)}
}

func (f *fakePets) Create(_ context.Context, pet *domain.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *pet
	f.byID[pet.ID] = &clone
	return nil
}

func (f *fakePets) GetByID(_ context.Context, id string) (*domain.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pet, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *pet
	return &clone, nil
}

func (f *fakePets) Search(_ context.Context, _ domain.PetFilter) ([]domain.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.Pet, 0, len(f.byID))
	for _, pet := range f.byID {
		items = append(items, *pet)
	}
	return items, nil
}

func (f *fakePets) ListByOwner(_ context.Context, email string) ([]domain.Pet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Pet
	for _, pet := range f.byID {
		if pet.OwnerEmail == email {
			items = append(items, *pet)
		}
	}
	return items, nil
}

func (f *fakePets) Update(_ context.Context, pet *domain.Pet) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *pet
	f.byID[pet.ID] = &clone
	return nil
}

func (f *fakePets) MarkAdopted(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pet, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	pet.Adopted = true
	return nil
}

func (f *fakePets) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type adoptionKey struct {
	userEmail string
	petID     string
}

type fakeAdoptions struct {
	mu     sync.Mutex
	byID   map[string]*domain.AdoptionRequest
	byPair map[adoptionKey]string
	pets   *fakePets
}

func newFakeAdoptions(pets *fakePets) *fakeAdoptions {
	return &fakeAdoptions{
		byID:   make(map[string]*domain.AdoptionRequest),
		byPair: make(map[adoptionKey]string),
		pets:   pets,
	}
}

func (f *fakeAdoptions) Create(_ context.Context, req *domain.AdoptionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := adoptionKey{userEmail: req.UserEmail, petID: req.PetID}
	if _, ok := f.byPair[key]; ok {
		return domain.ErrAlreadyAdopted
	}
	clone := *req
	f.byID[req.ID] = &clone
	f.byPair[key] = req.ID
	return nil
}

func (f *fakeAdoptions) GetByID(_ context.Context, id string) (*domain.AdoptionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *req
	return &clone, nil
}

func (f *fakeAdoptions) ListByOwner(_ context.Context, ownerEmail string) ([]domain.AdoptionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.AdoptionRequest
	for _, req := range f.byID {
		if req.PetOwnerEmail == ownerEmail {
			items = append(items, *req)
		}
	}
	return items, nil
}

func (f *fakeAdoptions) ListByRequester(_ context.Context, userEmail string) ([]domain.AdoptionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.AdoptionRequest
	for _, req := range f.byID {
		if req.UserEmail == userEmail {
			items = append(items, *req)
		}
	}
	return items, nil
}

func (f *fakeAdoptions) Decide(_ context.Context, id string, accepted bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	decided, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}

	f.pets.mu.Lock()
	defer f.pets.mu.Unlock()
	pet, ok := f.pets.byID[decided.PetID]
	if !ok {
		return domain.ErrNotFound
	}
	pet.Adopted = accepted

	if accepted {
		decided.Status = domain.AdoptionAdopted
		for _, req := range f.byID {
			if req.PetID == decided.PetID && req.ID != id {
				req.Status = domain.AdoptionRejected
			}
		}
	} else {
		decided.Status = domain.AdoptionRejected
	}
	return nil
}

type fakeCampaigns struct {
	mu   sync.Mutex
	byID map[string]*domain.DonationCampaign
}

func newFakeCampaigns() *fakeCampaigns {
	return &fakeCampaigns{byID: make(map[string]*domain.DonationCampaign)}
}

func (f *fakeCampaigns) Create(_ context.Context, c *domain.DonationCampaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := *c
	f.byID[c.ID] = &clone
	return nil
}

func (f *fakeCampaigns) GetByID(_ context.Context, id string) (*domain.DonationCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (f *fakeCampaigns) ListAll(_ context.Context) ([]domain.DonationCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]domain.DonationCampaign, 0, len(f.byID))
	for _, c := range f.byID {
		items = append(items, *c)
	}
	return items, nil
}

func (f *fakeCampaigns) ListByCreator(_ context.Context, email string) ([]domain.DonationCampaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.DonationCampaign
	for _, c := range f.byID {
		if c.UserEmail == email {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (f *fakeCampaigns) Update(_ context.Context, c *domain.DonationCampaign) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.byID[c.ID]; ok {
		c.DonatedAmount = existing.DonatedAmount
		c.Paused = existing.Paused
	}
	clone := *c
	f.byID[c.ID] = &clone
	return nil
}

func (f *fakeCampaigns) Pause(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Paused = true
	return nil
}

type fakePayments struct {
	mu        sync.Mutex
	byID      map[string]*domain.Payment
	campaigns *fakeCampaigns
}

func newFakePayments(campaigns *fakeCampaigns) *fakePayments {
	return &fakePayments{byID: make(map[string]*domain.Payment), campaigns: campaigns}
}

func (f *fakePayments) Record(_ context.Context, payment *domain.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[payment.ID]; ok {
		return domain.ErrDuplicatePayment
	}

	f.campaigns.mu.Lock()
	defer f.campaigns.mu.Unlock()
	campaign, ok := f.campaigns.byID[payment.CampaignID]
	if !ok {
		return domain.ErrNotFound
	}

	clone := *payment
	f.byID[payment.ID] = &clone
	campaign.DonatedAmount += payment.Amount
	campaign.LastDonationDate = payment.CreatedAt
	return nil
}

func (f *fakePayments) ListByCampaign(_ context.Context, campaignID string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Payment
	for _, p := range f.byID {
		if p.CampaignID == campaignID {
			items = append(items, *p)
		}
	}
	return items, nil
}

func (f *fakePayments) ListByDonator(_ context.Context, email string) ([]domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var items []domain.Payment
	for _, p := range f.byID {
		if p.DonatorEmail == email {
			items = append(items, *p)
		}
	}
	return items, nil
}

type stubGateway struct {
	secret     string
	err        error
	lastAmount int64
}

func (s *stubGateway) CreateIntent(_ context.Context, amountMinorUnits int64, _ string) (string, error) {
	s.lastAmount = amountMinorUnits
	return s.secret, s.err
}

type stubIssuer struct {
	token string
	err   error
}

func (s *stubIssuer) Issue(_, _ string) (string, error) {
	return s.token, s.err
}

type testApp struct {
	app       *App
	users     *fakeUsers
	pets      *fakePets
	adoptions *fakeAdoptions
	campaigns *fakeCampaigns
	payments  *fakePayments
	gateway   *stubGateway
}

func newTestApp() *testApp {
	users := newFakeUsers()
	pets := newFakePets()
	adoptions := newFakeAdoptions(pets)
	campaigns := newFakeCampaigns()
	payments := newFakePayments(campaigns)
	gateway := &stubGateway{secret: "pi_test_secret"}
	return &testApp{
		app: &App{
			Logger:    zerolog.Nop(),
			Users:     users,
			Pets:      pets,
			Adoptions: adoptions,
			Campaigns: campaigns,
			Payments:  payments,
			Tokens:    &stubIssuer{token: "test-token"},
			Gateway:   gateway,
		},
		users:     users,
		pets:      pets,
		adoptions: adoptions,
		campaigns: campaigns,
		payments:  payments,
		gateway:   gateway,
	}
}
