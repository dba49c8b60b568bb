package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/willardjansen/cubby-remote-reaper/internal/api"
	"github.com/willardjansen/cubby-remote-reaper/internal/bridge"
	"github.com/willardjansen/cubby-remote-reaper/internal/catalog"
	"github.com/willardjansen/cubby-remote-reaper/internal/config"
	"github.com/willardjansen/cubby-remote-reaper/pkg/embedded"
)

const (
	sentryFlushTimeout    = 2 * time.Second
	environmentProduction = "production"
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "cubby-remote-reaper@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			Debug:            cfg.Environment != environmentProduction,
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				// Filter out sensitive data
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s, release: %s)", cfg.Environment, releaseVersion)
			defer sentry.Flush(sentryFlushTimeout)
		}
	} else {
		log.Println("⚠️  Sentry not configured (SENTRY_DSN not set)")
	}

	// Load the bank catalog
	store := catalog.NewStore()
	loader := makeSourceLoader(cfg)
	sources, err := loader()
	if err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to read bank files:", err)
	}
	count, parseErrors := store.Reload(sources)
	log.Printf("📚 Loaded %d banks from %d source(s), %d parse error(s)", count, len(sources), len(parseErrors))

	// WebSocket hub for the DAW script and browser remotes
	hub := bridge.NewHub(originChecker(cfg))

	// Set Gin mode
	if cfg.Environment == environmentProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := api.SetupRouter(cfg, store, hub, loader, GetVersion())

	log.Printf("🚀 Starting bridge on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		sentry.CaptureException(err)
		log.Fatal("Failed to start server:", err)
	}
}

// makeSourceLoader builds the closure that re-reads bank definition text
// on every reload. Resolution order: explicit CUBBY_BANK_FILES, then the
// Reaticulate bank file under REAPER_RESOURCE_PATH, then the embedded
// factory banks so a fresh install still has something to browse.
func makeSourceLoader(cfg *config.Config) func() ([]catalog.Source, error) {
	return func() ([]catalog.Source, error) {
		paths := cfg.BankFiles
		if len(paths) == 0 {
			if p := cfg.DefaultBankFile(); p != "" {
				paths = []string{p}
			}
		}
		if len(paths) == 0 {
			return []catalog.Source{{Name: "factory.reabank (embedded)", Text: string(embedded.FactoryBanks)}}, nil
		}

		sources := make([]catalog.Source, 0, len(paths))
		for _, path := range paths {
			text, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			sources = append(sources, catalog.Source{Name: path, Text: string(text)})
		}
		return sources, nil
	}
}

// originChecker restricts WebSocket upgrades to the configured origin;
// unset means any origin may connect.
func originChecker(cfg *config.Config) func(*http.Request) bool {
	if cfg.AllowedOrigin == "" {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		return r.Header.Get("Origin") == cfg.AllowedOrigin
	}
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization": true,
		"cookie":        true,
		"x-api-key":     true,
	}

	for k, v := range headers {
		if sensitiveKeys[k] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
