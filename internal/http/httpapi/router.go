package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
)

// Deps bundles everything the router needs beyond the handler container.
type Deps struct {
	Config   *infra.Config
	Logger   infra.Logger
	Verifier middleware.TokenVerifier
	Users    middleware.UserLookup
	Country  geoip.CountryResolver
}

// NewRouter wires the HTTP surface. Route paths mirror the upstream clients;
// auth requirements follow the access-control design: reads are open, writes
// ride behind the bearer-token gate, and admin operations additionally check
// the stored role.
func NewRouter(app *handlers.App, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(deps.Logger),
		middleware.CORS(deps.Config.CORSAllowedOrigins),
	)

	authenticated := middleware.Authenticate(deps.Verifier)
	adminOnly := middleware.RequireAdmin(deps.Users)
	limited := middleware.RateLimit(deps.Config.RateLimitPerMin, time.Minute)

	r.Get("/", app.Root)
	r.Get("/v1/healthz", app.Health)

	r.With(limited).Post("/jwt", app.TokenIssue)

	r.Route("/users", func(r chi.Router) {
		r.Post("/", app.UsersCreate)
		r.With(authenticated, adminOnly).Get("/", app.UsersList)
		r.With(authenticated).Get("/admin/{email}", app.AdminCheck)
		r.With(authenticated, adminOnly).Patch("/admin/{id}", app.UsersPromote)
	})

	r.Route("/all-pets", func(r chi.Router) {
		r.Get("/", app.PetsList)
		r.Get("/{id}", app.PetGet)
		r.With(authenticated).Get("/email/{email}", app.PetsByOwner)
		r.With(authenticated).Post("/", app.PetsCreate)
		r.With(authenticated).Put("/petId/{id}", app.PetUpdate)
		r.With(authenticated).Patch("/{id}", app.PetMarkAdopted)
		r.With(authenticated).Delete("/{id}", app.PetDelete)
	})

	r.Route("/adopt-pet", func(r chi.Router) {
		r.Get("/{email}", app.AdoptionsByOwner)
		r.Get("/user/{email}", app.AdoptionsByRequester)
		r.Post("/", app.AdoptionCreate)
		// Deciding a request was unauthenticated upstream; that was an
		// oversight, owner-or-admin is enforced in the handler.
		r.With(authenticated).Patch("/{id}", app.AdoptionDecide)
	})

	r.Route("/donation-campaign", func(r chi.Router) {
		r.Get("/", app.CampaignsList)
		r.Get("/{id}", app.CampaignGet)
		r.With(authenticated).Post("/", app.CampaignsCreate)
		r.With(authenticated).Put("/petId/{id}", app.CampaignUpdate)
		r.With(authenticated).Patch("/pause/{id}", app.CampaignPause)
	})
	r.Get("/donation-user-campaign/{email}", app.CampaignsByCreator)

	r.With(limited).Post("/create-payment-intent", app.PaymentIntentCreate)

	r.Route("/payment", func(r chi.Router) {
		r.Get("/petId/{id}", app.PaymentsByCampaign)
		r.Get("/{email}", app.PaymentsByDonator)
	})
	r.With(middleware.Country(deps.Country)).Post("/payments", app.PaymentsCreate)

	return r
}
