// cmd/preflight/main.go
package main

import (
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/multierr"

	"github.com/hamed0406/fleetstatus/internal/config"
)

func main() {
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		os.Exit(1)
	}

	if strings.Contains(os.Getenv("VERCEL_API_TOKEN"), " ") {
		warn("VERCEL_API_TOKEN contains spaces; it was trimmed but double-check the value.")
	}
	ok("VERCEL_API_TOKEN present")

	if cfg.VercelTeamID == "" {
		warn("VERCEL_TEAM_ID empty; only the token owner's personal projects will be listed.")
	} else {
		ok("VERCEL_TEAM_ID=" + cfg.VercelTeamID)
	}

	ok("API_ADDR=" + cfg.Addr)
	ok(fmt.Sprintf("probing %d domains at a time, %s timeout each", cfg.BatchSize, cfg.ProbeTimeout))

	if len(cfg.AllowedOrigins) == 0 {
		warn("ALLOWED_ORIGINS empty; every origin may call the API from a browser.")
	} else {
		ok("ALLOWED_ORIGINS=" + strings.Join(cfg.AllowedOrigins, ","))
	}

	if cfg.TrustProxy {
		warn("TRUST_PROXY set; client IPs come from X-Forwarded-For, make sure the proxy overwrites it.")
	}

	if cfg.RatePerMin == 0 {
		warn("PUBLIC_RPM=0; every request triggers a full probe cycle with no rate limit.")
	}

	ok("preflight passed")
}
