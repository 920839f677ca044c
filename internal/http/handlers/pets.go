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

type petDTO struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	Age              string    `json:"age,omitempty"`
	Location         string    `json:"location,omitempty"`
	ShortDescription string    `json:"shortDescription,omitempty"`
	LongDescription  string    `json:"longDescription,omitempty"`
	ImageURL         string    `json:"image,omitempty"`
	OwnerEmail       string    `json:"ownerEmail"`
	Adopted          bool      `json:"adopted"`
	DateAdded        time.Time `json:"dateAdded"`
}

func toPetDTO(p domain.Pet) petDTO {
	return petDTO{
		ID:               p.ID,
		Name:             p.Name,
		Category:         p.Category,
		Age:              p.Age,
		Location:         p.Location,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		ImageURL:         p.ImageURL,
		OwnerEmail:       p.OwnerEmail,
		Adopted:          p.Adopted,
		DateAdded:        p.DateAdded,
	}
}

func toPetDTOs(pets []domain.Pet) []petDTO {
	items := make([]petDTO, 0, len(pets))
	for _, p := range pets {
		items = append(items, toPetDTO(p))
	}
	return items
}

type petPayload struct {
	Name             string `json:"name"`
	Category         string `json:"category"`
	Age              string `json:"age"`
	Location         string `json:"location"`
	ShortDescription string `json:"shortDescription"`
	LongDescription  string `json:"longDescription"`
	ImageURL         string `json:"image"`
}

// PetsList is the open listing: optional case-insensitive name search and
// category filter, newest first.
func (a *App) PetsList(w http.ResponseWriter, r *http.Request) {
	filter := domain.PetFilter{
		Query:    r.URL.Query().Get("query"),
		Category: r.URL.Query().Get("category"),
	}
	pets, err := a.Pets.Search(r.Context(), filter)
	if err != nil {
		a.storeError(w, err, "pets_list")
		return
	}
	a.json(w, http.StatusOK, toPetDTOs(pets))
}

// PetGet returns a single listing.
func (a *App) PetGet(w http.ResponseWriter, r *http.Request) {
	pet, err := a.Pets.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.storeError(w, err, "pet_get")
		return
	}
	a.json(w, http.StatusOK, toPetDTO(*pet))
}

// PetsByOwner lists one user's pets. Authenticated.
func (a *App) PetsByOwner(w http.ResponseWriter, r *http.Request) {
	pets, err := a.Pets.ListByOwner(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		a.storeError(w, err, "pets_by_owner")
		return
	}
	a.json(w, http.StatusOK, toPetDTOs(pets))
}

// PetsCreate adds a listing owned by the authenticated user.
func (a *App) PetsCreate(w http.ResponseWriter, r *http.Request) {
	var req petPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Name == "" || req.Category == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "name and category required")
		return
	}

	pet := &domain.Pet{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Category:         req.Category,
		Age:              req.Age,
		Location:         req.Location,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		ImageURL:         req.ImageURL,
		OwnerEmail:       a.currentEmail(r),
		DateAdded:        time.Now().UTC(),
	}
	if err := a.Pets.Create(r.Context(), pet); err != nil {
		a.storeError(w, err, "pets_create")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"insertedId": pet.ID})
}

// PetUpdate upserts a listing's editable fields. Only the owner or an admin
// may touch an existing pet.
func (a *App) PetUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req petPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	owner := a.currentEmail(r)
	dateAdded := time.Now().UTC()
	existing, err := a.Pets.GetByID(r.Context(), id)
	switch {
	case err == nil:
		if !a.authorizeOwner(w, r, existing.OwnerEmail) {
			return
		}
		owner = existing.OwnerEmail
		dateAdded = existing.DateAdded
	case errors.Is(err, domain.ErrNotFound):
		// Unknown id falls through to the create path of the upsert.
	default:
		a.storeError(w, err, "pet_update")
		return
	}

	pet := &domain.Pet{
		ID:               id,
		Name:             req.Name,
		Category:         req.Category,
		Age:              req.Age,
		Location:         req.Location,
		ShortDescription: req.ShortDescription,
		LongDescription:  req.LongDescription,
		ImageURL:         req.ImageURL,
		OwnerEmail:       owner,
		DateAdded:        dateAdded,
	}
	if err := a.Pets.Update(r.Context(), pet); err != nil {
		a.storeError(w, err, "pet_update")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"modifiedCount": 1})
}

// PetMarkAdopted flips the adopted flag on a listing.
func (a *App) PetMarkAdopted(w http.ResponseWriter, r *http.Request) {
	if err := a.Pets.MarkAdopted(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.storeError(w, err, "pet_mark_adopted")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"modifiedCount": 1})
}

// PetDelete removes a listing. Owner or admin only.
func (a *App) PetDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	pet, err := a.Pets.GetByID(r.Context(), id)
	if err != nil {
		a.storeError(w, err, "pet_delete")
		return
	}
	if !a.authorizeOwner(w, r, pet.OwnerEmail) {
		return
	}
	if err := a.Pets.Delete(r.Context(), id); err != nil {
		a.storeError(w, err, "pet_delete")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"deletedCount": 1})
}
