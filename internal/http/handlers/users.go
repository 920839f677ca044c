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

type userDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		PhotoURL:  u.PhotoURL,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

// UsersList returns every account. Admin only.
func (a *App) UsersList(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.List(r.Context())
	if err != nil {
		a.storeError(w, err, "users_list")
		return
	}
	items := make([]userDTO, 0, len(users))
	for _, u := range users {
		items = append(items, toUserDTO(u))
	}
	a.json(w, http.StatusOK, items)
}

type createUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
}

// UsersCreate registers an account. Re-registering an existing email is a
// no-op that answers with the sentinel message instead of an error, so
// front-end retries after social login stay harmless.
func (a *App) UsersCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email required")
		return
	}

	user := &domain.User{
		ID:       uuid.NewString(),
		Email:    req.Email,
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     domain.RoleMember,
	}
	if err := a.Users.Create(r.Context(), user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			a.json(w, http.StatusOK, map[string]any{
				"message":    "User already exist",
				"insertedId": nil,
			})
			return
		}
		a.storeError(w, err, "users_create")
		return
	}
	a.json(w, http.StatusCreated, map[string]any{"insertedId": user.ID})
}

// AdminCheck reports whether the account named in the path is an admin.
// Self-or-forbidden: the authenticated identity must match the path email.
func (a *App) AdminCheck(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if email != a.currentEmail(r) {
		a.error(w, http.StatusForbidden, "forbidden", "Forbidden access")
		return
	}

	admin := false
	user, err := a.Users.GetByEmail(r.Context(), email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		a.storeError(w, err, "admin_check")
		return
	}
	if user != nil {
		admin = user.IsAdmin()
	}
	a.json(w, http.StatusOK, map[string]bool{"admin": admin})
}

// UsersPromote raises the identified account to Admin. Admin only; roles are
// never demoted.
func (a *App) UsersPromote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Users.PromoteToAdmin(r.Context(), id); err != nil {
		a.storeError(w, err, "users_promote")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"modifiedCount": 1})
}
