package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	API      API
	Wedding  Wedding
	WhatsApp WhatsApp

	SiteOrigin      string        `env:"WEDS_SITE_ORIGIN" envDefault:"http://localhost:3000"`
	StateDSN        string        `env:"WEDS_STATE" envDefault:"kvdb://data/weds.db"`
	ToastTTL        time.Duration `env:"WEDS_TOAST_TTL" envDefault:"5s"`
	StrangerParty   int           `env:"WEDS_STRANGER_PARTY_SIZE" envDefault:"1"`
	Lang            string        `env:"WEDS_LANG" envDefault:"en"`
	LogLevel        string        `env:"WEDS_LOG_LEVEL" envDefault:"info"`
	OTLPEndpoint    string        `env:"WEDS_OTLP_ENDPOINT"`
	OTLPServiceName string        `env:"WEDS_OTLP_SERVICE_NAME" envDefault:"weds"`
}

// API locates the backend. Endpoints may be absolute URLs or paths
// relative to BaseURL.
type API struct {
	BaseURL                string        `env:"WEDS_API_BASE_URL" envDefault:"http://localhost:8080"`
	AdminBase              string        `env:"WEDS_ADMIN_BASE" envDefault:"/api/admin"`
	HealthEndpoint         string        `env:"WEDS_HEALTH_ENDPOINT" envDefault:"/api/admin/health"`
	RSVPEndpoint           string        `env:"WEDS_RSVP_ENDPOINT" envDefault:"/api/public/rsvp"`
	RSVPMetaEndpoint       string        `env:"WEDS_RSVP_META_ENDPOINT" envDefault:"/api/public/rsvp-meta"`
	PublicSettingsEndpoint string        `env:"WEDS_PUBLIC_SETTINGS_ENDPOINT" envDefault:"/api/public/settings"`
	Timeout                time.Duration `env:"WEDS_REQUEST_TIMEOUT" envDefault:"15s"`
}

// Wedding details used in WhatsApp invitations
type Wedding struct {
	Date      string `env:"WEDDING_DATE" envDefault:"Saturday, January 1, 2025"`
	Location  string `env:"WEDDING_LOCATION" envDefault:"Venue TBD"`
	BrideName string `env:"BRIDE_NAME" envDefault:"Bride"`
	GroomName string `env:"GROOM_NAME" envDefault:"Groom"`
}

type WhatsApp struct {
	DataDir string `env:"WHATSAPP_DATA_DIR" envDefault:"data"`
}

// LoadConfig loads configuration from a .env file (if present) and the
// environment. Variables already set in the environment win over .env.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}
	if cfg.StrangerParty < 1 {
		cfg.StrangerParty = 1
	}
	return &cfg, nil
}
