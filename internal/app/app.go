package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/catalog-intake-backend/internal/db"
	httpserver "github.com/openshelf/catalog-intake-backend/internal/http"
	"github.com/openshelf/catalog-intake-backend/internal/pkg/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	clientSet, err := wireClients(log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	repoSet := wireRepos(theDB, log)
	serviceSet := wireServices(theDB, log, repoSet, clientSet)
	handlerSet := wireHandlers(log, serviceSet)
	srv := wireServer(log, handlerSet)

	return &App{
		Log:      log,
		DB:       theDB,
		Server:   srv,
		Router:   srv.Engine,
		Cfg:      cfg,
		Repos:    repoSet,
		Clients:  clientSet,
		Services: serviceSet,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.PageCache != nil {
		if err := a.Clients.PageCache.Close(); err != nil {
			a.Log.Warn("Failed to close redis page cache", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
