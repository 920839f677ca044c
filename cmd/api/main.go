package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/auth"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/providers/payment"
)

func main() {
	// Load .env (optional).
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build token service")
	}

	var gateway handlers.IntentCreator
	if cfg.StripeSecretKey != "" {
		gateway, err = payment.NewClient(payment.Options{
			SecretKey: cfg.StripeSecretKey,
			BaseURL:   cfg.StripeBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build payment gateway client")
		}
	} else {
		logger.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents disabled")
		gateway = disabledGateway{}
	}

	country, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open geoip database")
	}

	users := repo.NewUserRepository(dbpool)
	app := &handlers.App{
		Logger:    logger,
		Users:     users,
		Pets:      repo.NewPetRepository(dbpool),
		Adoptions: repo.NewAdoptionRepository(dbpool),
		Campaigns: repo.NewCampaignRepository(dbpool),
		Payments:  repo.NewPaymentRepository(dbpool),
		Tokens:    tokens,
		Gateway:   gateway,
	}

	router := httpapi.NewRouter(app, httpapi.Deps{
		Config:   cfg,
		Logger:   logger,
		Verifier: tokens,
		Users:    users,
		Country:  country,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// disabledGateway keeps the route alive in environments without gateway
// credentials, failing each call explicitly instead of at startup.
type disabledGateway struct{}

func (disabledGateway) CreateIntent(context.Context, int64, string) (string, error) {
	return "", errors.New("payment gateway is not configured")
}
