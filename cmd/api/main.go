package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/myflix/backend/internal/auth/gate"
	authhttp "github.com/myflix/backend/internal/auth/http"
	"github.com/myflix/backend/internal/auth/service"
	cataloghttp "github.com/myflix/backend/internal/catalog/http"
	catalogrepo "github.com/myflix/backend/internal/catalog/repository"
	"github.com/myflix/backend/internal/common/clock"
	"github.com/myflix/backend/internal/common/config"
	commoncrypto "github.com/myflix/backend/internal/common/crypto"
	"github.com/myflix/backend/internal/common/db"
	commonhttp "github.com/myflix/backend/internal/common/http"
	"github.com/myflix/backend/internal/common/logger"
	srv "github.com/myflix/backend/internal/common/server"
	userhttp "github.com/myflix/backend/internal/user/http"
	userrepo "github.com/myflix/backend/internal/user/repository"
)

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "api", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool := db.NewPool(log, cfg.DatabaseURL)
	defer pool.Close()

	users := userrepo.NewPgRepository(pool)
	movies := catalogrepo.NewPgRepository(pool)
	hasher := &commoncrypto.BcryptHasher{}
	ids := commoncrypto.NewUUIDGenerator()
	clk := clock.NewRealClock()

	local := service.NewLocalAuthenticator(users, hasher, log)
	issuer := service.NewTokenIssuer(cfg.JWTSecret, ids, cfg.TokenTTL, clk)
	tokens := service.NewTokenAuthenticator(users, cfg.JWTSecret, clk, log)
	authGate := gate.New(tokens, log)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/api/login", authhttp.NewHandler(local, issuer, cfg.RequestTimeout, log))
	userHandler := userhttp.NewHandler(users, hasher, ids, clk, authGate, cfg.RequestTimeout, log)
	mux.Handle("/api/users", userHandler)
	mux.Handle("/api/users/", userHandler)
	catalogHandler := cataloghttp.NewHandler(movies, authGate, cfg.RequestTimeout, log)
	mux.Handle("/api/movies", catalogHandler)
	mux.Handle("/api/movies/", catalogHandler)
	mux.Handle("/api/genres/", catalogHandler)
	mux.Handle("/api/directors/", catalogHandler)

	rateLimiter := commonhttp.NewPathRateLimiter()
	handler := rateLimiter.Middleware(commonhttp.BuildBaseHandler(log, mux))

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)
	srv.StartWithGracefulShutdown(server, log, "api")
}
