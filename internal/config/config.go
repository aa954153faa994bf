// Package config loads application configuration from environment
// variables. cmd/server loads a .env file first when one exists.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/iliyamo/venue-floor-planner/internal/database"
	"github.com/iliyamo/venue-floor-planner/internal/optimizer"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Env        string // APP_ENV
	Port       string // APP_PORT
	DB         database.Config
	JWTSecret  string
	AccessTTL  time.Duration // ACCESS_TOKEN_TTL_MIN
	RefreshTTL time.Duration // REFRESH_TOKEN_TTL_DAYS
	BcryptCost int

	FootprintMargin   float64       // FOOTPRINT_MARGIN_M
	ReservationWindow time.Duration // RESERVATION_WINDOW
	SweepInterval     time.Duration // SWEEP_INTERVAL
	LogLevel          string        // LOG_LEVEL
	AuditDir          string        // AUDIT_LOG_DIR, where the event consumer writes
	EventsEnabled     bool          // EVENTS_ENABLED
}

// Parse reads the configuration, reporting every missing or malformed
// required variable at once.
func Parse() (Config, error) {
	var missing []string
	must := func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			missing = append(missing, key)
		}
		return v
	}
	mustInt := func(key string) int {
		s := must(key)
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			missing = append(missing, key+" (not an int)")
		}
		return n
	}

	cfg := Config{
		Env:  must("APP_ENV"),
		Port: must("APP_PORT"),
		DB: database.Config{
			User: must("DB_USER"),
			Pass: os.Getenv("DB_PASS"),
			Host: must("DB_HOST"),
			Port: must("DB_PORT"),
			Name: must("DB_NAME"),
		},
		JWTSecret:  must("JWT_SECRET"),
		AccessTTL:  time.Duration(mustInt("ACCESS_TOKEN_TTL_MIN")) * time.Minute,
		RefreshTTL: time.Duration(mustInt("REFRESH_TOKEN_TTL_DAYS")) * 24 * time.Hour,
		BcryptCost: mustInt("BCRYPT_COST"),

		FootprintMargin:   envFloat("FOOTPRINT_MARGIN_M", optimizer.DefaultMargin),
		ReservationWindow: envDur("RESERVATION_WINDOW", optimizer.DefaultWindow),
		SweepInterval:     envDur("SWEEP_INTERVAL", 5*time.Minute),
		LogLevel:          envStr("LOG_LEVEL", "info"),
		AuditDir:          envStr("AUDIT_LOG_DIR", "logs"),
		EventsEnabled:     envBool("EVENTS_ENABLED", true),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.FootprintMargin < 0 {
		return Config{}, fmt.Errorf("FOOTPRINT_MARGIN_M must not be negative, got %g", cfg.FootprintMargin)
	}
	if cfg.ReservationWindow <= 0 {
		return Config{}, fmt.Errorf("RESERVATION_WINDOW must be positive, got %s", cfg.ReservationWindow)
	}
	return cfg, nil
}

// Load is Parse for main: a bad configuration stops the process.
func Load() Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatal("invalid configuration", "err", err)
	}
	return cfg
}

// PlannerOptions builds the optimizer options from the configuration.
func (c Config) PlannerOptions(logger *log.Logger) optimizer.Options {
	return optimizer.Options{Margin: c.FootprintMargin, Window: c.ReservationWindow, Logger: logger}
}
