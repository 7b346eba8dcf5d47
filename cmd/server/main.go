// Copyright 2026 The Clinicore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/clinicore/clinicore/internal/audit"
	"github.com/clinicore/clinicore/internal/authn"
	"github.com/clinicore/clinicore/internal/authz"
	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/crypto"
	"github.com/clinicore/clinicore/internal/identity"
	"github.com/clinicore/clinicore/internal/notification"
	"github.com/clinicore/clinicore/internal/observability/logger"
	"github.com/clinicore/clinicore/internal/observability/metrics"
	"github.com/clinicore/clinicore/internal/observability/tracing"
	"github.com/clinicore/clinicore/internal/patient"
	"github.com/clinicore/clinicore/internal/report"
	"github.com/clinicore/clinicore/internal/store/postgres"
	redisstore "github.com/clinicore/clinicore/internal/store/redis"
	transportHTTP "github.com/clinicore/clinicore/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.InitLogger(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})
	slog.Info("starting clinicore backend")

	// Initialize context
	ctx := context.Background()

	// Initialize tracer
	tracer, err := tracing.New(ctx, tracing.Config{
		Enabled:        cfg.Observability.OTELEnabled,
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		SamplingRate:   cfg.Observability.SamplingRate,
	})
	if err != nil {
		slog.Error("failed to initialize tracer", logger.Error(err))
	}
	defer tracer.Shutdown(ctx)

	// Initialize meter
	_, err = metrics.New(ctx, metrics.Config{
		Enabled: cfg.Observability.OTELEnabled,
	}, cfg.Observability.ServiceName)
	if err != nil {
		slog.Error("failed to initialize meter", logger.Error(err))
	}

	// Initialize database
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		slog.Error("failed to connect to database", logger.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("connected to database")

	// Initialize Redis
	rdb, err := redisstore.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		slog.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer rdb.Close()
	slog.Info("connected to redis")

	// Field encryption for patient PII
	fieldKey, err := hex.DecodeString(cfg.Crypto.FieldKey)
	if err != nil {
		slog.Error("invalid field encryption key", logger.Error(err))
		os.Exit(1)
	}
	cipher, err := crypto.NewFieldCipher(fieldKey)
	if err != nil {
		slog.Error("failed to initialize field cipher", logger.Error(err))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	reportRepo := postgres.NewReportRepository(db)
	roleRepo := authz.NewCachedRoleRepository(postgres.NewRoleRepository(db), rdb, cfg.Redis.RoleTTL)

	// Initialize helpers
	auditLogger := audit.NewSlogLogger()
	verifier := authn.NewJWTVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, cfg.Auth.Audience)

	// Initialize services
	resolver := identity.NewResolver(userRepo, professionalRepo, verifier)
	patientSvc := patient.NewService(patientRepo, cipher, auditLogger)
	patientAuth := patient.NewAuthorizer(patientRepo)
	reportSvc := report.NewService(reportRepo)
	reportAuth := report.NewAuthorizer(reportRepo, userRepo)
	evaluator := authz.NewEvaluator(roleRepo)
	roleSvc := authz.NewRoleService(roleRepo, auditLogger)

	ledger := notification.NewRedisLedger(rdb, cfg.Redis.AckTTL)
	notifSvc := notification.NewService(ledger, auditLogger, notification.NewLogSender())

	// Rate Limiter
	rateLimiter := transportHTTP.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	// Initialize HTTP handler
	handler := transportHTTP.NewHandler(
		verifier,
		resolver,
		patientSvc,
		patientAuth,
		reportSvc,
		reportAuth,
		evaluator,
		roleSvc,
		notifSvc,
		auditLogger,
	)

	// Create router
	router := transportHTTP.NewRouter(handler, rateLimiter, cfg.Server.AllowedOrigins)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		slog.Info("starting http server", logger.Component("server"), logger.Operation("listen"))
		slog.Info(fmt.Sprintf("listening on %s", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", logger.Error(err))
	}

	slog.Info("server stopped")
}
