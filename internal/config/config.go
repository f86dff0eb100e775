package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
	SiteName string `envconfig:"SITE_NAME" default:"Costa Rica Travel Blog"`

	CosmicAPIURL     string        `envconfig:"COSMIC_API_URL" default:"https://api.cosmicjs.com/v3"`
	CosmicBucketSlug string        `envconfig:"COSMIC_BUCKET_SLUG"`
	CosmicReadKey    string        `envconfig:"COSMIC_READ_KEY"`
	CMSTimeout       time.Duration `envconfig:"CMS_TIMEOUT" default:"0s"`
	CMSDepth         int           `envconfig:"CMS_DEPTH" default:"1"`

	CartStore string        `envconfig:"CART_STORE" default:"memory"` // memory | sqlite | redis
	DBDSN     string        `envconfig:"DB_DSN" default:"puravida.db"`
	RedisURL  string        `envconfig:"REDIS_URL"`
	CartTTL   time.Duration `envconfig:"CART_TTL" default:"720h"`

	SMTPHost    string `envconfig:"SMTP_HOST"`
	SMTPPort    int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser    string `envconfig:"SMTP_USER"`
	SMTPPass    string `envconfig:"SMTP_PASS"`
	ContactFrom string `envconfig:"CONTACT_FROM" default:"hello@puravida.test"`
	ContactTo   string `envconfig:"CONTACT_TO" default:"hello@puravida.test"`

	CheckoutDelay time.Duration `envconfig:"CHECKOUT_DELAY" default:"2s"`

	StaticDir   string `envconfig:"STATIC_DIR" default:"./web/static"`
	TemplateDir string `envconfig:"TEMPLATE_DIR" default:"./web/templates"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	// .env is a development convenience; its absence is not an error.
	if err := godotenv.Load(); err == nil {
		log.Printf("[config] loaded .env")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	log.Printf("[config] PORT=%s APP_ENV=%s CART_STORE=%s COSMIC_BUCKET_SLUG=%s LOG_FILE=%s",
		cfg.Port, cfg.Env, cfg.CartStore, cfg.CosmicBucketSlug, cfg.LogFile)
	return cfg, nil
}

func (c Config) IsProduction() bool { return c.Env == "production" }

// MailEnabled reports whether SMTP delivery is configured.
func (c Config) MailEnabled() bool { return c.SMTPHost != "" }
