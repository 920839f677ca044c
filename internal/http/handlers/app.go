package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

// TokenIssuer signs identity tokens for the open /jwt route.
type TokenIssuer interface {
	Issue(email, name string) (string, error)
}

// IntentCreator opens a payment intent with the gateway and returns the
// client-side confirmation secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountMinorUnits int64, currency string) (string, error)
}

// App is the handler container; every dependency is injected at startup.
type App struct {
	Logger    infra.Logger
	Users     domain.UserRepository
	Pets      domain.PetRepository
	Adoptions domain.AdoptionRepository
	Campaigns domain.CampaignRepository
	Payments  domain.PaymentRepository
	Tokens    TokenIssuer
	Gateway   IntentCreator
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// storeError maps repository failures onto the error taxonomy; anything
// unrecognized is logged and reported as a generic internal failure.
func (a *App) storeError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, domain.ErrAlreadyAdopted):
		a.error(w, http.StatusConflict, "conflict", "You already adopt this pet")
	case errors.Is(err, domain.ErrDuplicatePayment):
		a.error(w, http.StatusConflict, "conflict", "payment already recorded")
	case errors.Is(err, domain.ErrUserExists):
		a.error(w, http.StatusConflict, "conflict", "User already exist")
	default:
		a.Logger.Error().Err(err).Str("op", op).Msg("store operation failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

func (a *App) currentEmail(r *http.Request) string {
	return middleware.EmailFromContext(r.Context())
}

// authorizeOwner allows the record owner or an admin through. It writes the
// 403 itself and reports whether the caller may proceed.
func (a *App) authorizeOwner(w http.ResponseWriter, r *http.Request, ownerEmail string) bool {
	email := a.currentEmail(r)
	if email != "" && email == ownerEmail {
		return true
	}
	if email != "" {
		user, err := a.Users.GetByEmail(r.Context(), email)
		if err == nil && user != nil && user.IsAdmin() {
			return true
		}
	}
	a.error(w, http.StatusForbidden, "forbidden", "Forbidden access")
	return false
}
