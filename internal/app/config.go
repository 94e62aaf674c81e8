package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/accentdojo/accentdojo-backend/internal/observability"
	"github.com/accentdojo/accentdojo-backend/internal/platform/envutil"
	"github.com/accentdojo/accentdojo-backend/internal/platform/mail"
)

type Config struct {
	LogMode string

	DatabaseDriver string
	DatabaseURL    string
	DBPoolSize     int

	AudioStorageMode    string
	AudioDir            string
	AudioBucket         string
	StorageEmulatorHost string
	GoogleCredentials   string
	TempAudioTTL        time.Duration
	ImageDir            string

	RuntimePepper []byte
	CookieKey     []byte
	SessionTTL    time.Duration
	EmailTTL      time.Duration
	NagGrace      time.Duration

	ServerBinding  string
	ServerThreads  int
	RequestTimeout time.Duration
	CacheMaxAge    time.Duration
	SiteDomain     string
	SiteLink       string
	Paranoid       bool

	SMTP mail.SMTPConfig

	RedisAddr      string
	MetricsEnabled bool
	Otel           observability.OtelConfig

	TestModeManifest string
	OutputGroup      string
}

// LoadConfig reads the environment once. Missing keys and an unknown
// database driver fail startup.
func LoadConfig() (Config, error) {
	pepper, err := envutil.Key32("RUNTIME_PEPPER")
	if err != nil {
		return Config{}, err
	}
	cookieKey, err := envutil.Key32("COOKIE_KEY")
	if err != nil {
		return Config{}, err
	}

	threads := envutil.Int("SERVER_THREADS", 8)
	if threads < 1 {
		threads = 1
	}
	siteDomain := envutil.String("SITE_DOMAIN", "localhost")

	cfg := Config{
		LogMode: envutil.String("LOG_MODE", "development"),

		DatabaseDriver: strings.ToLower(envutil.String("DATABASE_DRIVER", "postgres")),
		DatabaseURL:    envutil.String("DATABASE_URL", ""),
		DBPoolSize:     envutil.Int("DB_POOL_SIZE", threads),

		AudioStorageMode:    envutil.String("AUDIO_STORAGE_MODE", ""),
		AudioDir:            envutil.String("AUDIO_DIR", "audio"),
		AudioBucket:         envutil.String("AUDIO_BUCKET", ""),
		StorageEmulatorHost: envutil.String("STORAGE_EMULATOR_HOST", ""),
		GoogleCredentials:   envutil.String("GOOGLE_APPLICATION_CREDENTIALS", ""),
		TempAudioTTL:        envutil.Duration("TEMP_AUDIO_TTL", 10*time.Minute, time.Second),
		ImageDir:            envutil.String("IMAGE_DIR", "images"),

		RuntimePepper: pepper,
		CookieKey:     cookieKey,
		SessionTTL:    envutil.Duration("SESSION_EXPIRE_DAYS", 14*24*time.Hour, 24*time.Hour),
		EmailTTL:      envutil.Duration("EMAIL_EXPIRE_DAYS", 14*24*time.Hour, 24*time.Hour),
		NagGrace:      envutil.Duration("NAG_GRACE_HOURS", 48*time.Hour, time.Hour),

		ServerBinding:  envutil.String("SERVER_BINDING", ":8080"),
		ServerThreads:  threads,
		RequestTimeout: envutil.Duration("REQUEST_TIMEOUT", 15*time.Second, time.Second),
		CacheMaxAge:    envutil.Duration("CACHE_MAX_AGE", 24*time.Hour, time.Second),
		SiteDomain:     siteDomain,
		SiteLink:       envutil.String("SITE_LINK", "http://"+siteDomain),
		Paranoid:       envutil.Bool("PARANOID", false),

		SMTP: mail.SMTPConfig{
			Server:   envutil.String("SMTP_SERVER", ""),
			Username: envutil.String("SMTP_USERNAME", ""),
			Password: envutil.String("SMTP_PASSWORD", ""),
			From:     envutil.String("SMTP_FROM", "noreply@"+siteDomain),
		},

		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		MetricsEnabled: envutil.Bool("METRICS_ENABLED", false),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "accentdojo-backend"),
			Environment: envutil.String("OTEL_ENVIRONMENT", "development"),
			Version:     envutil.String("OTEL_SERVICE_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: float64(envutil.Int("OTEL_SAMPLE_PERCENT", 10)) / 100,
		},

		TestModeManifest: envutil.String("TESTMODE_MANIFEST", ""),
		OutputGroup:      envutil.String("OUTPUT_GROUP", "output"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DATABASE_URL")
	}
	switch cfg.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	return cfg, nil
}
