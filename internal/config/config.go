package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

type Config struct {
	Addr     string // API bind address, e.g., "127.0.0.1:8080" or ":8080" (Docker)
	LogDir   string // logs directory
	LogLevel string // debug | info | warn | error

	VercelToken   string // bearer credential for the project inventory
	VercelTeamID  string // team scope; empty means the token's personal account
	VercelAPIBase string
	ProjectLimit  int // page size of the inventory request

	ProbeTimeout   time.Duration // per-domain bound, the in-flight request is cancelled after it
	BatchSize      int           // probes in flight at once
	DNSDiagnostics bool          // annotate down probes with a DNS classification

	AllowedOrigins []string // CORS; empty allows all
	RatePerMin     int      // per-IP limit on the fleet query, 0 disables
	RateBurst      int
	TrustProxy     bool // take client IPs from X-Forwarded-For / X-Real-IP
}

const (
	DefaultAddr          = "127.0.0.1:8080"
	DefaultVercelAPIBase = "https://api.vercel.com"
	DefaultProjectLimit  = 100
	DefaultProbeTimeout  = 5 * time.Second
	DefaultBatchSize     = 10
)

func FromEnv() Config {
	addr := os.Getenv("API_ADDR")
	if addr == "" {
		addr = DefaultAddr
	}

	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	logLevel := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	if logLevel == "" {
		logLevel = "info"
	}

	apiBase := strings.TrimRight(strings.TrimSpace(os.Getenv("VERCEL_API_BASE")), "/")
	if apiBase == "" {
		apiBase = DefaultVercelAPIBase
	}

	probeTimeout := DefaultProbeTimeout
	if ms := envInt("PROBE_TIMEOUT_MS", 0); ms > 0 {
		probeTimeout = time.Duration(ms) * time.Millisecond
	}

	return Config{
		Addr:     addr,
		LogDir:   logDir,
		LogLevel: logLevel,

		VercelToken:   strings.TrimSpace(os.Getenv("VERCEL_API_TOKEN")),
		VercelTeamID:  strings.TrimSpace(os.Getenv("VERCEL_TEAM_ID")),
		VercelAPIBase: apiBase,
		ProjectLimit:  envPositive("VERCEL_PROJECT_LIMIT", DefaultProjectLimit),

		ProbeTimeout:   probeTimeout,
		BatchSize:      envPositive("PROBE_BATCH_SIZE", DefaultBatchSize),
		DNSDiagnostics: envBool("DNS_DIAGNOSTICS", false),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		RatePerMin:     envNonNegative("PUBLIC_RPM", 60),
		RateBurst:      envNonNegative("PUBLIC_BURST", 10),
		TrustProxy:     envBool("TRUST_PROXY", false),
	}
}

// Validate reports every problem at once rather than the first one found.
func (c Config) Validate() error {
	var err error
	if c.VercelToken == "" {
		err = multierr.Append(err, errors.New("VERCEL_API_TOKEN is required"))
	}
	if c.Addr == "" {
		err = multierr.Append(err, errors.New("API_ADDR is empty"))
	}
	if !strings.HasPrefix(c.VercelAPIBase, "http://") && !strings.HasPrefix(c.VercelAPIBase, "https://") {
		err = multierr.Append(err, errors.New("VERCEL_API_BASE must be an http(s) URL"))
	}
	if c.ProjectLimit < 1 {
		err = multierr.Append(err, errors.New("VERCEL_PROJECT_LIMIT must be positive"))
	}
	if c.BatchSize < 1 {
		err = multierr.Append(err, errors.New("PROBE_BATCH_SIZE must be positive"))
	}
	if c.ProbeTimeout <= 0 {
		err = multierr.Append(err, errors.New("PROBE_TIMEOUT_MS must be positive"))
	}
	if c.RatePerMin > 0 && c.RateBurst < 1 {
		err = multierr.Append(err, errors.New("PUBLIC_BURST must be at least 1 when PUBLIC_RPM is set"))
	}
	return err
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envPositive(key string, fallback int) int {
	if n := envInt(key, fallback); n > 0 {
		return n
	}
	return fallback
}

func envNonNegative(key string, fallback int) int {
	if n := envInt(key, fallback); n >= 0 {
		return n
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
