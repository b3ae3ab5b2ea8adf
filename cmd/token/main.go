// Command token mints a bearer token for the API from AUTH_JWT_SECRET.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/batchpos/internal/config"
	"github.com/MrJamesThe3rd/batchpos/internal/http/auth"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	subject := flag.String("sub", "till", "token subject")
	ttl := flag.Duration("ttl", cfg.Auth.TokenTTL, "token lifetime")
	flag.Parse()

	if cfg.Auth.JWTSecret == "" {
		slog.Error("AUTH_JWT_SECRET is not set")
		os.Exit(1)
	}

	token, err := auth.Mint([]byte(cfg.Auth.JWTSecret), *subject, *ttl, time.Now())
	if err != nil {
		slog.Error("failed to mint token", "error", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
