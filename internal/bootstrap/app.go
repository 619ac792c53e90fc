package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-analyzer/internal/extract"
	"resume-analyzer/internal/llm"
	"resume-analyzer/internal/llm/gemini"
	"resume-analyzer/internal/llm/openai"
	"resume-analyzer/internal/resumes"
	"resume-analyzer/internal/services/health"
	"resume-analyzer/internal/shared/auth"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/server/middleware"
	"resume-analyzer/internal/shared/storage/db"
	"resume-analyzer/internal/shared/storage/object"
	localstore "resume-analyzer/internal/shared/storage/object/local"
	s3store "resume-analyzer/internal/shared/storage/object/s3"
	"resume-analyzer/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config         config.Config
	Router         *gin.Engine
	DB             *sql.DB
	Store          object.ObjectStore
	LLM            llm.Client
	Tokens         *auth.TokenService
	UsersRepo      users.Repo
	ResumesRepo    resumes.Repo
	UsersService   *users.Service
	ResumesService *resumes.Service
	UsersHandler   *users.Handler
	ResumesHandler *resumes.Handler
	Health         *health.Service
}

// Overrides replaces collaborators that tests cannot reach for real.
type Overrides struct {
	LLM       llm.Client
	Extractor resumes.TextExtractor
	DB        *sql.DB
}

// Build prepares every dependency and the router from cfg.
func Build(cfg config.Config) (*App, error) {
	return BuildWith(cfg, Overrides{})
}

// BuildWith is Build with injected collaborators.
func BuildWith(cfg config.Config, o Overrides) (*App, error) {
	ctx := context.Background()

	sqlDB := o.DB
	if sqlDB == nil {
		var err error
		if sqlDB, err = buildDB(ctx, cfg); err != nil {
			return nil, err
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := o.LLM
	if client == nil {
		if client, err = BuildLLM(ctx, cfg); err != nil {
			return nil, err
		}
	}
	client = llm.WithRetry(llm.NewDispatcher(client, cfg.LLMMaxConcurrency, cfg.LLMTimeout), cfg.LLMMaxRetries)

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTAlgorithm, cfg.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token service: %w", err)
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    client,
		Tokens: tokens,
		Health: health.NewService(sqlDB),
	}
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
	}

	var extractor resumes.TextExtractor = extract.PDFExtractor{}
	if o.Extractor != nil {
		extractor = o.Extractor
	}
	pipeline := resumes.Pipeline{Extractor: extractor, LLM: client}
	if err := pipeline.Validate(); err != nil {
		return nil, err
	}

	app.UsersService = users.NewService(app.UsersRepo, auth.PasswordHasher{Cost: cfg.BcryptCost})
	app.ResumesService = resumes.NewService(pipeline, app.ResumesRepo, store)
	app.UsersHandler = users.NewHandler(app.UsersService, tokens)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService, cfg.MaxUploadBytes)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Tokens:        tokens,
		Health:        app.Health,
		UserHandler:   app.UsersHandler,
		ResumeHandler: app.ResumesHandler,
		UploadLimiter: middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// BuildLLM constructs the configured provider client. A dev-like environment
// without an API key gets llm.Placeholder so the server still starts.
func BuildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.ProviderAPIKey()) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: no API key for LLM_PROVIDER %q; analysis requests will fail as unavailable", cfg.LLMProvider)
			return llm.Placeholder, nil
		}
		return nil, fmt.Errorf("LLM_PROVIDER %q requires an API key", cfg.LLMProvider)
	}
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(openai.Options{
			APIKey:               cfg.OpenAIAPIKey,
			Model:                cfg.LLMModel,
			ConvertSystemMessage: cfg.LLMConvertSystemMessage,
			BaseURL:              cfg.LLMBaseURL,
			Timeout:              cfg.LLMTimeout,
		})
	case "gemini", "":
		return gemini.NewClient(ctx, gemini.Options{
			APIKey:               cfg.GeminiAPIKey,
			Model:                cfg.LLMModel,
			ConvertSystemMessage: cfg.LLMConvertSystemMessage,
			BaseURL:              cfg.LLMBaseURL,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	opts := db.OptionsFromLookup(db.DefaultServerOptions(), os.LookupEnv)
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if cfg.IsDevLike() {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "local":
		return localstore.New(cfg.LocalStoreDir), nil
	default:
		return nil, nil
	}
}
