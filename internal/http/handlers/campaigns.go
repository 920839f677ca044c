package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type campaignDTO struct {
	ID               string    `json:"id"`
	UserEmail        string    `json:"userEmail"`
	PetName          string    `json:"petName,omitempty"`
	ImageURL         string    `json:"image,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty"`
	MaxDonation      int64     `json:"maxDonation"`
	DonatedAmount    int64     `json:"donatedAmount"`
	Paused           bool      `json:"paused"`
	LastDonationDate time.Time `json:"lastDonationDate"`
	CreatedAt        time.Time `json:"campaignCreatedDateTime"`
}

func toCampaignDTO(c domain.DonationCampaign) campaignDTO {
	return campaignDTO{
		ID:               c.ID,
		UserEmail:        c.UserEmail,
		PetName:          c.PetName,
		ImageURL:         c.ImageURL,
		ShortDescription: c.ShortDescription,
		LongDescription:  c.LongDescription,
		MaxDonation:      c.MaxDonation,
		DonatedAmount:    c.DonatedAmount,
		Paused:           c.Paused,
		LastDonationDate: c.LastDonationDate,
		CreatedAt:        c.CreatedAt,
	}
}

func toCampaignDTOs(campaigns []domain.DonationCampaign) []campaignDTO {
	items := make([]campaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		items = append(items, toCampaignDTO(c))
	}
	return items
}

type campaignPayload struct {
	PetName          string `json:"petName"`
	ImageURL         string `json:"image"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	MaxDonation      int64  `json:"maxDonation"`
}

// CampaignsList returns every campaign, newest first. Open.
func (a *App) CampaignsList(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.ListAll(r.Context())
	if err != nil {
		a.storeError(w, err, "campaigns_list")
		return
	}
	a.json(w, http.StatusOK, toCampaignDTOs(campaigns))
}

// CampaignGet returns a single campaign. Open.
func (a *App) CampaignGet(w http.ResponseWriter, r *http.Request) {
	campaign, err := a.Campaigns.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.storeError(w, err, "campaign_get")
		return
	}
	a.json(w, http.StatusOK, toCampaignDTO(*campaign))
}

// CampaignsByCreator lists the campaigns created by the path email. Open.
func (a *App) CampaignsByCreator(w http.ResponseWriter, r *http.Request) {
	campaigns, err := a.Campaigns.ListByCreator(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		a.storeError(w, err, "campaigns_by_creator")
		return
	}
	a.json(w, http.StatusOK, toCampaignDTOs(campaigns))
}

// CampaignsCreate opens a campaign owned by the authenticated user with a
// zeroed accumulator.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	now := time.Now().UTC()
	campaign := &domain.DonationCampaign{
		ID:               uuid.NewString(),
		UserEmail:        a.currentEmail(r),
		PetName:          req.PetName,
		ImageURL:         req.ImageURL,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		MaxDonation:      req.MaxDonation,
		LastDonationDate: now,
		CreatedAt:        now,
	}
	if err := a.Campaigns.Create(r.Context(), campaign); err != nil {
		a.storeError(w, err, "campaigns_create")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"insertedId": campaign.ID})
}

// CampaignUpdate upserts a campaign's editable fields. Creator or admin only
// for existing records; the accumulator is never writable here.
func (a *App) CampaignUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req campaignPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	creator := a.currentEmail(r)
	createdAt := time.Now().UTC()
	lastDonation := createdAt
	existing, err := a.Campaigns.GetByID(r.Context(), id)
	switch {
	case err == nil:
		if !a.authorizeOwner(w, r, existing.UserEmail) {
			return
		}
		creator = existing.UserEmail
		createdAt = existing.CreatedAt
		lastDonation = existing.LastDonationDate
	case errors.Is(err, domain.ErrNotFound):
		// Unknown id falls through to the create path of the upsert.
	default:
		a.storeError(w, err, "campaign_update")
		return
	}

	campaign := &domain.DonationCampaign{
		ID:               id,
		UserEmail:        creator,
		PetName:          req.PetName,
		ImageURL:         req.ImageURL,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		MaxDonation:      req.MaxDonation,
		LastDonationDate: lastDonation,
		CreatedAt:        createdAt,
	}
	if err := a.Campaigns.Update(r.Context(), campaign); err != nil {
		a.storeError(w, err, "campaign_update")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"modifiedCount": 1})
}

// CampaignPause stops a campaign from accepting new donations. Creator or
// admin only; the flag is never cleared.
func (a *App) CampaignPause(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	campaign, err := a.Campaigns.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err, "campaign_pause")
		return
	}
	if !a.authorizeOwner(w, r, campaign.UserEmail) {
		return
	}
	if err := a.Campaigns.Pause(r.Context(), id); err != nil {
		a.storeError(w, err, "campaign_pause")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"modifiedCount": 1})
}
