package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/middleware"
	"server/internal/providers/payment"
)

type paymentDTO struct {
	ID           string    `json:"id"`
	CampaignID   string    `json:"campaignId"`
	DonatorEmail string    `json:"donatorEmail"`
	Amount       int64     `json:"donationAmount"`
	DonorCountry string    `json:"donorCountry,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toPaymentDTOs(payments []domain.Payment) []paymentDTO {
	items := make([]paymentDTO, 0, len(payments))
	for _, p := range payments {
		items = append(items, paymentDTO{
			ID:           p.ID,
			CampaignID:   p.CampaignID,
			DonatorEmail: p.DonatorEmail,
			Amount:       p.Amount,
			DonorCountry: p.DonorCountry,
			CreatedAt:    p.CreatedAt,
		})
	}
	return items
}

type intentRequest struct {
	Amount float64 `json:"amount"`
}

// PaymentIntentCreate asks the gateway for a client secret. The posted
// amount is in major units; the gateway contract wants minor units,
// truncated (amount * 100, parseInt) for compatibility with the existing
// clients.
func (a *App) PaymentIntentCreate(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	minor := payment.MinorUnits(req.Amount)
	if minor <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be positive")
		return
	}

	secret, err := a.Gateway.CreateIntent(r.Context(), minor, "usd")
	if err != nil {
		a.Logger.Error().Err(err).Msg("payment intent creation failed")
		a.error(w, http.StatusBadGateway, "gateway", "failed to create payment intent")
		return
	}
	a.json(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

type recordPaymentRequest struct {
	ID           string `json:"id"`
	CampaignID   string `json:"campaignId"`
	PetID        string `json:"petId"` // legacy field name for the campaign id
	DonatorEmail string `json:"donatorEmail"`
	Amount       int64  `json:"donationAmount"`
}

// PaymentsCreate records a donation and accumulates it into the campaign
// total. The payment id is the idempotency key: clients may retry a failed
// call with the same id and can never double-count; omitting the id gets a
// server-generated one with no duplicate protection.
func (a *App) PaymentsCreate(w http.ResponseWriter, r *http.Request) {
	var req recordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	campaignID := req.CampaignID
	if campaignID == "" {
		campaignID = req.PetID
	}
	if campaignID == "" || req.DonatorEmail == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "campaignId and donatorEmail required")
		return
	}
	if req.Amount <= 0 {
		a.error(w, http.StatusBadRequest, "bad_request", "donationAmount must be positive")
		return
	}

	campaign, err := a.Campaigns.GetByID(r.Context(), campaignID)
	if err != nil {
		a.storeError(w, err, "payments_create")
		return
	}
	if campaign.Paused {
		a.error(w, http.StatusConflict, "conflict", "campaign is paused")
		return
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	p := &domain.Payment{
		ID:           id,
		CampaignID:   campaignID,
		DonatorEmail: req.DonatorEmail,
		Amount:       req.Amount,
		DonorCountry: middleware.CountryFromContext(r.Context()),
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.Payments.Record(r.Context(), p); err != nil {
		a.storeError(w, err, "payments_create")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"insertedId": p.ID})
}

// PaymentsByCampaign lists the donations recorded against one campaign.
func (a *App) PaymentsByCampaign(w http.ResponseWriter, r *http.Request) {
	payments, err := a.Payments.ListByCampaign(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.storeError(w, err, "payments_by_campaign")
		return
	}
	a.json(w, http.StatusOK, toPaymentDTOs(payments))
}

// PaymentsByDonator lists the donations one user has made.
func (a *App) PaymentsByDonator(w http.ResponseWriter, r *http.Request) {
	payments, err := a.Payments.ListByDonator(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		a.storeError(w, err, "payments_by_donator")
		return
	}
	a.json(w, http.StatusOK, toPaymentDTOs(payments))
}
