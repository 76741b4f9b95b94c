package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cafeops/backend/internal/domain/shared"
	"github.com/cafeops/backend/internal/infrastructure/auth"
	"github.com/cafeops/backend/internal/infrastructure/config"
	"github.com/cafeops/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// token mints an access token signed with the configured secret, for local
// development and smoke tests. Production tokens come from the identity service.
func main() {
	var (
		tenant string
		user   string
		role   string
		name   string
		ttl    time.Duration
	)
	flag.StringVar(&tenant, "tenant", "", "Business (tenant) ID")
	flag.StringVar(&user, "user", "", "User ID (default: random)")
	flag.StringVar(&role, "role", "owner", "Role (owner, admin, cook, cashier, waiter)")
	flag.StringVar(&name, "name", "", "Display name")
	flag.DurationVar(&ttl, "ttl", time.Hour, "Token lifetime")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      "info",
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.App.Env == "production" {
		log.Fatal("Refusing to mint tokens in production")
	}

	tenantID, err := uuid.Parse(tenant)
	if err != nil {
		log.Fatal("Invalid -tenant", zap.String("tenant", tenant), zap.Error(err))
	}
	userID := uuid.New()
	if user != "" {
		if userID, err = uuid.Parse(user); err != nil {
			log.Fatal("Invalid -user", zap.String("user", user), zap.Error(err))
		}
	}
	parsedRole, err := shared.ParseRole(role)
	if err != nil {
		log.Fatal("Invalid -role", zap.String("role", role), zap.Error(err))
	}

	token, err := auth.NewJWTService(cfg.JWT).Issue(auth.IssueInput{
		TenantID: tenantID,
		UserID:   userID,
		Role:     parsedRole,
		Name:     name,
		TTL:      ttl,
	})
	if err != nil {
		log.Fatal("Failed to issue token", zap.Error(err))
	}
	log.Info("Token issued",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", parsedRole.String()),
		zap.Duration("ttl", ttl),
	)
	fmt.Println(token)
}
