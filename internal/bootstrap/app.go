package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"pdfmark-backend/internal/annotations"
	googleauth "pdfmark-backend/internal/auth"
	"pdfmark-backend/internal/documents"
	"pdfmark-backend/internal/llm"
	"pdfmark-backend/internal/llm/gemini"
	sharedauth "pdfmark-backend/internal/shared/auth"
	"pdfmark-backend/internal/shared/config"
	"pdfmark-backend/internal/shared/server"
	"pdfmark-backend/internal/shared/storage/db"
	"pdfmark-backend/internal/shared/storage/object"
	localstore "pdfmark-backend/internal/shared/storage/object/local"
	s3store "pdfmark-backend/internal/shared/storage/object/s3"
	"pdfmark-backend/internal/summarize"
	"pdfmark-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Tokens *sharedauth.Tokens

	DocumentsRepo   documents.DocumentsRepo
	AnnotationsRepo annotations.AnnotationsRepo
	UsersRepo       users.Repo

	DocumentsService   *documents.Service
	AnnotationsService *annotations.Service
	SummaryService     *summarize.Service
	UsersService       *users.Service

	DocumentsHandler   *documents.Handler
	AnnotationsHandler *annotations.Handler
	SummaryHandler     *summarize.Handler
	UsersHandler       *users.Handler
	GoogleAuth         *googleauth.GoogleService
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

	tokens, err := sharedauth.NewTokens(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Tokens: tokens,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             app.Config,
		Tokens:             app.Tokens,
		DocumentsHandler:   app.DocumentsHandler,
		AnnotationsHandler: app.AnnotationsHandler,
		SummaryHandler:     app.SummaryHandler,
		UsersHandler:       app.UsersHandler,
		GoogleAuth:         app.GoogleAuth,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Printf("bootstrap: GEMINI_API_KEY empty; summarization disabled")
		return llm.PlaceholderClient{}, nil
	}
	return gemini.NewClient(cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMTimeout)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	var docRepo documents.DocumentsRepo
	var annRepo annotations.AnnotationsRepo
	var userRepo users.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		annRepo = &annotations.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		annRepo = annotations.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		Annotations:     annRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}
	annSvc := &annotations.Service{Repo: annRepo, Docs: docRepo}
	summarySvc := &summarize.Service{DocRepo: docRepo, LLM: llmClient}
	userSvc := users.NewService(userRepo)

	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.Tokens,
		userSvc,
	)

	app.DocumentsRepo = docRepo
	app.AnnotationsRepo = annRepo
	app.UsersRepo = userRepo
	app.DocumentsService = docSvc
	app.AnnotationsService = annSvc
	app.SummaryService = summarySvc
	app.UsersService = userSvc
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AnnotationsHandler = annotations.NewHandler(annSvc)
	app.SummaryHandler = summarize.NewHandler(summarySvc)
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleAuthSvc

	return nil
}
