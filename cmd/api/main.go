package main

import (
	"context"
	"fmt"
	"os/signal"
	"studynotes/cmd/internal/config"
	"studynotes/cmd/internal/domain/database"
	"studynotes/cmd/internal/domain/database/repository"
	"studynotes/cmd/internal/domain/policy"
	"studynotes/cmd/internal/http/handler"
	authmw "studynotes/cmd/internal/http/middleware"
	"studynotes/cmd/internal/infrastructure/aws/storage"
	"studynotes/cmd/internal/infrastructure/storage/local"
	"studynotes/cmd/internal/infrastructure/supabase"
	"studynotes/cmd/internal/routes"
	"studynotes/cmd/internal/service"
	"studynotes/cmd/internal/service/jobs"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/uid"
	"studynotes/cmd/internal/utils/validators"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const (
	uploadsPrefix   = "/uploads"
	shutdownTimeout = 10 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err = uid.Init(cfg.NodeID); err != nil {
		log.Fatal(err)
	}

	validate := validator.New()
	if err = validators.Register(validate); err != nil {
		log.Fatalf("failed to register validators: %v", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	fileStorage, uploadsDir, err := newFileStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to init file storage: %v", err)
	}

	tokens, err := utils.NewTokenSigner(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		log.Fatal(err)
	}

	// Repos
	noteRepo := repository.NewNoteRepository(db)
	userRepo := repository.NewUserRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	// Services
	rule := policy.NewValidationRule(cfg.Validation.Threshold, cfg.Validation.UploaderReward)
	noteService := service.NewNoteService(noteRepo, fileStorage, validate)
	validationService := service.NewValidationService(noteRepo, rule, validate)
	accessService := service.NewAccessService(noteRepo, ledgerRepo)
	userService := service.NewUserService(userRepo, ledgerRepo, tokens, validate)

	// Jobs
	reconciler := jobs.NewValidationReconciler(noteRepo, rule, cfg.ReconcileInterval)
	go reconciler.Start(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("31M"))

	routes.Register(e, &routes.Handlers{
		Notes:       handler.NewNoteDefault(noteService),
		Validations: handler.NewValidationDefault(validationService),
		Access:      handler.NewAccessDefault(accessService),
		Users:       handler.NewUserDefault(userService),
		Auth:        authmw.NewAuthMiddleware(&authmw.AuthMiddlewareConfig{UserRepo: userRepo, Tokens: tokens}),
		AuthLimiter: authmw.NewAuthRateLimiter(cfg.AuthRateLimit),
		UploadsDir:  uploadsDir,
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := e.Shutdown(shutdownCtx); err != nil {
			log.Errorf("failed to shut down server: %v", err)
		}
	}()

	log.Infof("starting studynotes on port %d (db=%s, storage=%s)", cfg.Port, cfg.Database.Driver, cfg.Storage.Driver)
	if err := e.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

// newFileStorage picks the configured backend. The returned directory is
// only set for local storage, which echo then serves statically.
func newFileStorage(ctx context.Context, cfg config.StorageConfig) (service.FileStorage, string, error) {
	switch cfg.Driver {
	case config.StorageS3:
		s3Storage, err := storage.NewS3Storage(ctx, cfg.S3Region, cfg.S3Bucket)
		if err != nil {
			return nil, "", err
		}
		return s3Storage, "", nil

	case config.StorageSupabase:
		supabaseStorage, err := supabase.NewStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket)
		if err != nil {
			return nil, "", err
		}
		return supabaseStorage, "", nil

	default:
		disk, err := local.NewDiskStorage(cfg.UploadDir, uploadsPrefix)
		if err != nil {
			return nil, "", err
		}
		return disk, disk.Dir(), nil
	}
}
