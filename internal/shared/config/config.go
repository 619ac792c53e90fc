package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string   `validate:"required"`
	Env             string   `validate:"oneof=dev local staging production"`
	DatabaseURL     string   `validate:"required_if=Env production,required_if=Env staging"`
	CORSAllowOrigin []string `validate:"dive,required"`

	ObjectStoreType string `validate:"oneof=none local s3"`
	LocalStoreDir   string `validate:"required_if=ObjectStoreType local"`
	AWSRegion       string
	S3Bucket        string `validate:"required_if=ObjectStoreType s3"`
	S3Prefix        string
	SSEKMSKeyID     string

	LLMProvider             string `validate:"oneof=gemini openai"`
	LLMModel                string `validate:"required"`
	GeminiAPIKey            string
	OpenAIAPIKey            string
	LLMBaseURL              string `validate:"omitempty,url"`
	LLMConvertSystemMessage bool
	LLMTimeout              time.Duration `validate:"gt=0"`
	LLMMaxConcurrency       int           `validate:"gte=1"`
	LLMMaxRetries           int           `validate:"gte=0,lte=5"`

	JWTSecret      string        `validate:"required,min=8"`
	JWTAlgorithm   string        `validate:"oneof=HS256 HS384 HS512"`
	AccessTokenTTL time.Duration `validate:"gt=0"`
	BcryptCost     int           `validate:"gte=4,lte=31"`

	MaxUploadBytes      int64  `validate:"gt=0"`
	UploadRatePerMinute int    `validate:"gte=0"`
	UploadBurst         int    `validate:"gte=0"`
	LogLevel            string `validate:"oneof=debug info warn error"`
	LogFormat           string `validate:"oneof=json text"`
}

// devJWTSecret is only accepted outside staging/production.
const devJWTSecret = "dev-secret-change-me"

// Load reads configuration from environment variables with sensible defaults
// and validates the result. It fails fast on missing required settings.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience. Existing
	// process env always wins.
	for _, path := range []string{".env", "cmd/.env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err != nil {
				log.Printf("config: ignoring %s: %v", path, err)
			}
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup. Tests use it to
// avoid touching the process environment.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if val, ok := lookup(key); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
		return def
	}

	var errs []error
	intVal := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return n
	}
	durVal := func(key string, def time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return d
	}
	boolVal := func(key string, def bool) bool {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return def
		}
		return b
	}

	env := normalizeEnv(get("ENV", "dev"))
	provider := strings.ToLower(get("LLM_PROVIDER", "gemini"))

	cfg := Config{
		Port:            get("PORT", "8080"),
		Env:             env,
		DatabaseURL:     get("DATABASE_URL", ""),
		CORSAllowOrigin: splitAndTrim(get("CORS_ALLOW_ORIGINS", "http://localhost:5173,http://localhost:3000")),

		ObjectStoreType: normalizeStoreType(get("OBJECT_STORE", "local")),
		LocalStoreDir:   get("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       get("AWS_REGION", ""),
		S3Bucket:        get("S3_BUCKET", ""),
		S3Prefix:        get("S3_PREFIX", ""),
		SSEKMSKeyID:     get("SSE_KMS_KEY_ID", ""),

		LLMProvider:             provider,
		LLMModel:                get("LLM_MODEL", defaultModel(provider)),
		GeminiAPIKey:            get("GEMINI_API_KEY", get("GOOGLE_API_KEY", "")),
		OpenAIAPIKey:            get("OPENAI_API_KEY", ""),
		LLMBaseURL:              get("LLM_BASE_URL", ""),
		LLMConvertSystemMessage: boolVal("LLM_CONVERT_SYSTEM_MESSAGE", true),
		LLMTimeout:              durVal("LLM_TIMEOUT", 90*time.Second),
		LLMMaxConcurrency:       intVal("LLM_MAX_CONCURRENCY", 4),
		LLMMaxRetries:           intVal("LLM_MAX_RETRIES", 0),

		JWTSecret:      get("JWT_SECRET", get("SECRET_KEY", "")),
		JWTAlgorithm:   strings.ToUpper(get("JWT_ALGORITHM", get("ALGORITHM", "HS256"))),
		AccessTokenTTL: time.Duration(intVal("ACCESS_TOKEN_EXPIRE_MINUTES", 24*60)) * time.Minute,
		BcryptCost:     intVal("BCRYPT_COST", 10),

		MaxUploadBytes:      int64(intVal("MAX_UPLOAD_BYTES", 10<<20)),
		UploadRatePerMinute: intVal("UPLOAD_RATE_PER_MINUTE", 10),
		UploadBurst:         intVal("UPLOAD_BURST", 3),
		LogLevel:            strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat:           strings.ToLower(get("LOG_FORMAT", "json")),
	}

	if cfg.JWTSecret == "" && cfg.IsDevLike() {
		log.Printf("config: JWT_SECRET not set, using the development secret")
		cfg.JWTSecret = devJWTSecret
	}
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks struct constraints and returns a readable error listing
// every offending field. The provider API key may only be empty in dev-like
// environments.
func (c Config) Validate() error {
	var msgs []string
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("config: %w", err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
		}
	}
	if c.ProviderAPIKey() == "" && !c.IsDevLike() {
		field := "GeminiAPIKey"
		if c.LLMProvider == "openai" {
			field = "OpenAIAPIKey"
		}
		msgs = append(msgs, fmt.Sprintf("%s failed %q", field, "required"))
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("config: invalid settings: %s", strings.Join(msgs, "; "))
}

// ProviderAPIKey returns the API key of the selected LLM provider.
func (c Config) ProviderAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// IsDevLike reports whether the environment allows in-memory fallbacks.
func (c Config) IsDevLike() bool {
	return c.Env == "dev" || c.Env == "local"
}

func defaultModel(provider string) string {
	if provider == "openai" {
		return "gpt-4o-mini"
	}
	return "gemini-2.5-flash"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "none", "off", "disabled":
		return "none"
	default:
		return "local"
	}
}
