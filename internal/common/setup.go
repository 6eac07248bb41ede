package common

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"wallet-ledger-go/internal/api"
	"wallet-ledger-go/internal/database"
	"wallet-ledger-go/internal/email"
	"wallet-ledger-go/internal/models"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// A missing .env is fine; the environment can come from the shell or a container.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("Loaded environment variables from .env file")
	}
}

type Services struct {
	DbService *database.Service
	Ledger    *api.LedgerService
	Auth      *api.AuthService
}

// InitializeLogger builds the production logger. LOG_LEVEL=debug lowers the
// level, which is how the CLI shows reset emails outside production.
func InitializeLogger() (*zap.Logger, func()) {
	logConfig := zap.NewProductionConfig()
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := zap.ParseAtomicLevel(raw)
		if err != nil {
			log.Printf("Ignoring invalid LOG_LEVEL %q: %v\n", raw, err)
		} else {
			logConfig.Level = level
		}
	}

	logger, err := logConfig.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// InitializeServices opens the database and wires the ledger and auth
// services on top of it. Reset emails go to the log sender.
func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	categories, err := LoadCategorySeeds(cfg.Ledger.CategoriesFile)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Warn("Categories file not found, using built-in defaults",
			zap.String("file", cfg.Ledger.CategoriesFile))
		categories, err = DefaultCategorySeeds(), nil
	}
	if err != nil {
		dbService.Close()
		return nil, err
	}
	zap.L().Info("Category seeds loaded", zap.Int("count", len(categories)))

	return &Services{
		DbService: dbService,
		Ledger:    api.NewLedgerService(dbService, cfg.Ledger),
		Auth:      api.NewAuthService(dbService, email.NewLogSender(!cfg.IsProduction()), cfg.Auth, cfg.Ledger, categories),
	}, nil
}

func (cs *Services) Close() {
	if cs.DbService != nil {
		cs.DbService.Close()
	}
}

func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stderr: inappropriate ioctl for device") ||
		strings.Contains(msg, "sync /dev/stdout: inappropriate ioctl for device")
}
