package handlers

import (
	"encoding/json"
	"net/http"
)

type tokenRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// TokenIssue signs a short-lived identity token for the posted email. The
// route is open; possession of a token asserts identity only, roles are
// checked against the user store on every admin-gated call.
func (a *App) TokenIssue(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.Email == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "email required")
		return
	}
	token, err := a.Tokens.Issue(req.Email, req.Name)
	if err != nil {
		a.Logger.Error().Err(err).Msg("token issuance failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to issue token")
		return
	}
	a.json(w, http.StatusOK, tokenResponse{Token: token})
}
