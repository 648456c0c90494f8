package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

// Config holds the complete application configuration, loadable from
// environment variables (SHOP_ prefix), flags, or YAML config files.
type Config struct {
	Addr            string        `default:"0.0.0.0:8080" usage:"HTTP server listen address"`
	UpstreamURL     string        `usage:"Base URL of the backend REST API (SHOP_UPSTREAM_URL)" flag:"upstream-url"`
	UpstreamTimeout time.Duration `default:"15s" usage:"Per-request timeout for backend calls" flag:"upstream-timeout"`
	WhatsAppNumber  string        `default:"447936761983" usage:"WhatsApp number for product enquiry links" flag:"whatsapp-number"`
	SessionFile     string        `default:"" usage:"Path for persisting the admin session (empty = in-memory)" flag:"session-file"`

	Catalog   CatalogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
	Graceful  GracefulConfig
}

// CatalogConfig controls page sizes and caching for the product views.
type CatalogConfig struct {
	PerPage        int           `default:"20" usage:"Catalog grid page size" flag:"catalog-per-page"`
	ReviewPageSize int           `default:"10" usage:"Reviews fetched per detail view" flag:"review-page-size"`
	HomePopularCap int           `default:"5" usage:"Max popular products on the homepage feed" flag:"home-popular-cap"`
	HomeTotalCap   int           `default:"16" usage:"Max regular products on the homepage feed" flag:"home-total-cap"`
	CacheTTL       time.Duration `default:"1m" usage:"Product set cache lifetime" flag:"cache-ttl"`
}

// RateLimitConfig controls the per-client sliding window rate limiter.
type RateLimitConfig struct {
	Max    int           `default:"100" usage:"Max requests per window"`
	Window time.Duration `default:"1m"  usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "SHOP",
		Files:     []string{"config.yaml", "/etc/giftshop/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults()

	if cfg.UpstreamURL == "" {
		return nil, errors.New("upstream URL is required: set SHOP_UPSTREAM_URL")
	}

	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided environment variables (Railway,
// Render, etc.) that use standard names like PORT to the application's
// SHOP_-prefixed configuration.
func (c *Config) applyPlatformDefaults() {
	if port := os.Getenv("PORT"); port != "" && c.Addr == "0.0.0.0:8080" {
		c.Addr = "0.0.0.0:" + port
	}
}
