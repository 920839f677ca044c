package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"server/internal/domain"
)

type adoptionDTO struct {
	ID            string    `json:"id"`
	UserEmail     string    `json:"userEmail"`
	PetID         string    `json:"petId"`
	PetOwnerEmail string    `json:"petOwnerEmail"`
	PetName       string    `json:"petName,omitempty"`
	UserName      string    `json:"userName,omitempty"`
	UserPhone     string    `json:"phone,omitempty"`
	UserAddress   string    `json:"address,omitempty"`
	Status        string    `json:"adopted"`
	CreatedAt     time.Time `json:"createdAt"`
}

func toAdoptionDTOs(reqs []domain.AdoptionRequest) []adoptionDTO {
	items := make([]adoptionDTO, 0, len(reqs))
	for _, req := range reqs {
		items = append(items, adoptionDTO{
			ID:            req.ID,
			UserEmail:     req.UserEmail,
			PetID:         req.PetID,
			PetOwnerEmail: req.PetOwnerEmail,
			PetName:       req.PetName,
			UserName:      req.UserName,
			UserPhone:     req.UserPhone,
			UserAddress:   req.UserAddress,
			Status:        string(req.Status),
			CreatedAt:     req.CreatedAt,
		})
	}
	return items
}

// AdoptionsByOwner lists requests targeting pets owned by the path email.
func (a *App) AdoptionsByOwner(w http.ResponseWriter, r *http.Request) {
	reqs, err := a.Adoptions.ListByOwner(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		a.storeError(w, err, "adoptions_by_owner")
		return
	}
	a.json(w, http.StatusOK, toAdoptionDTOs(reqs))
}

// AdoptionsByRequester lists requests submitted by the path email.
func (a *App) AdoptionsByRequester(w http.ResponseWriter, r *http.Request) {
	reqs, err := a.Adoptions.ListByRequester(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		a.storeError(w, err, "adoptions_by_requester")
		return
	}
	a.json(w, http.StatusOK, toAdoptionDTOs(reqs))
}

type adoptionCreateRequest struct {
	UserEmail     string `json:"userEmail"`
	PetID         string `json:"petId"`
	PetOwnerEmail string `json:"petOwnerEmail"`
	PetName       string `json:"petName"`
	UserName      string `json:"userName"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
}

// AdoptionCreate submits an adoption request. The store enforces at most one
// request per (user, pet); a duplicate answers 409 and writes nothing.
func (a *App) AdoptionCreate(w http.ResponseWriter, r *http.Request) {
	var req adoptionCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.UserEmail == "" || req.PetID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "userEmail and petId required")
		return
	}

	adoption := &domain.AdoptionRequest{
		ID:            uuid.NewString(),
		UserEmail:     req.UserEmail,
		PetID:         req.PetID,
		PetOwnerEmail: req.PetOwnerEmail,
		PetName:       req.PetName,
		UserName:      req.UserName,
		UserPhone:     req.Phone,
		UserAddress:   req.Address,
		Status:        domain.AdoptionPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := a.Adoptions.Create(r.Context(), adoption); err != nil {
		a.storeError(w, err, "adoption_create")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"insertedId": adoption.ID})
}

type adoptionDecideRequest struct {
	Adopted bool `json:"adopted"`
}

// AdoptionDecide accepts or rejects the adoption request in the path. Only
// the pet's owner or an admin may decide. The pet flag and the request
// status move in one transaction.
func (a *App) AdoptionDecide(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req adoptionDecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	adoption, err := a.Adoptions.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err, "adoption_decide")
		return
	}
	// Authorization uses the pet's stored owner, not the owner email the
	// requester supplied at submission time.
	pet, err := a.Pets.GetByID(r.Context(), adoption.PetID)
	if err != nil {
		a.storeError(w, err, "adoption_decide")
		return
	}
	if !a.authorizeOwner(w, r, pet.OwnerEmail) {
		return
	}

	if err := a.Adoptions.Decide(r.Context(), id, req.Adopted); err != nil {
		a.storeError(w, err, "adoption_decide")
		return
	}

	status := domain.AdoptionRejected
	if req.Adopted {
		status = domain.AdoptionAdopted
	}
	a.json(w, http.StatusOK, map[string]any{
		"petAdopted": req.Adopted,
		"status":     string(status),
	})
}
