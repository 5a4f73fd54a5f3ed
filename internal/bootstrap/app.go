package bootstrap

import (
	"context"
	"database/sql"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"jobcompass-server/internal/llm"
	openai "jobcompass-server/internal/llm/openai"
	"jobcompass-server/internal/resumes"
	"jobcompass-server/internal/shared/config"
	"jobcompass-server/internal/shared/server"
	"jobcompass-server/internal/shared/storage/db"
	"jobcompass-server/internal/shared/storage/object"
	localstore "jobcompass-server/internal/shared/storage/object/local"
	s3store "jobcompass-server/internal/shared/storage/object/s3"
	"jobcompass-server/internal/uploads"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	Repo            resumes.Repo
	LLM             llm.Client
	Pipeline        *resumes.Service
	PipelineHandler *resumes.Handler
	UploadsHandler  *uploads.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var repo resumes.Repo
	if sqlDB != nil {
		repo = &resumes.PGRepo{DB: sqlDB}
	} else {
		repo = resumes.NewMemoryRepo()
	}

	pipeline := &resumes.Service{
		Store:          store,
		Repo:           repo,
		LLM:            llmClient,
		MaxUploadBytes: cfg.MaxUploadBytes,
	}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Store:           store,
		Repo:            repo,
		LLM:             llmClient,
		Pipeline:        pipeline,
		PipelineHandler: resumes.NewHandler(pipeline),
	}

	if cfg.ObjectStoreType == "s3" {
		uploadsHandler, err := uploads.NewHandler(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.MaxUploadBytes)
		if err != nil {
			if !isDevLike(cfg.Env) {
				return nil, err
			}
			log.Printf("bootstrap: presign uploads unavailable: %v", err)
		} else {
			app.UploadsHandler = uploadsHandler
		}
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		PipelineHandler: app.PipelineHandler,
		UploadsHandler:  app.UploadsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, errRequired("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.PublicBaseURL)
	default:
		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			// Local objects are served back through the /files route, so the
			// minted URLs must point at the port this server listens on.
			baseURL = "http://localhost:" + localPort(cfg.Port)
		}
		return localstore.New(cfg.LocalStoreDir, baseURL+"/files"), nil
	}
}

func localPort(port string) string {
	port = strings.TrimPrefix(strings.TrimSpace(port), ":")
	if port == "" {
		return "8080"
	}
	return port
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" {
		return llm.PlaceholderClient{}, nil
	}
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: openai unavailable; using placeholder client: %v", err)
			return llm.PlaceholderClient{}, nil
		}
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type errRequired string

func (e errRequired) Error() string { return string(e) }
