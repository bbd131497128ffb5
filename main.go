package main

import (
	"time"

	"go.uber.org/zap"

	"github.com/cppla/gossip/api"
	"github.com/cppla/gossip/config"
	"github.com/cppla/gossip/models"
	"github.com/cppla/gossip/routes"
	"github.com/cppla/gossip/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer utils.Logger.Sync() //nolint:errcheck

	storage, cleanup := openTokenStorage(cfg)

	forum := api.NewClient(cfg.API.BaseURL, cfg.Cookie.TokenCookie, cfg.API.Timeout)
	r, err := routes.SetupRouter(cfg, storage, forum)
	if err != nil {
		utils.Sugar.Fatalf("setup router: %v", err)
	}

	srv := utils.NewServer(":"+cfg.App.AppPort, r, utils.DEFAULT_READ_TIMEOUT, utils.DEFAULT_WRITE_TIMEOUT)
	for _, fn := range cleanup {
		srv.OnShutdown(fn)
	}

	utils.Sugar.Infof("Starting server on port %s (graceful), api=%s, token storage=%s", cfg.App.AppPort, cfg.API.BaseURL, cfg.App.TokenStorage)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

// openTokenStorage builds the configured backend, falling back to memory
// when Redis or the database cannot be reached.
func openTokenStorage(cfg config.AppConfig) (utils.TokenStorage, []func()) {
	switch cfg.App.TokenStorage {
	case config.StorageRedis:
		rc, err := utils.NewRedis(cfg.Redis)
		if err != nil {
			utils.Logger.Warn("redis unavailable, using in-memory token storage", zap.Error(err))
			return utils.NewMemoryTokenStorage(), nil
		}
		return utils.NewRedisTokenStorage(rc), []func(){func() { _ = rc.Close() }}

	case config.StorageDatabase:
		db, err := config.OpenDatabase(cfg, &models.BrowserToken{})
		if err != nil {
			utils.Logger.Warn("database unavailable, using in-memory token storage", zap.Error(err))
			return utils.NewMemoryTokenStorage(), nil
		}
		store := utils.NewDBTokenStorage(db)
		stopPurger := utils.StartTokenPurger(store, time.Hour)
		return store, []func(){
			stopPurger,
			func() {
				if sqlDB, err := db.DB(); err == nil {
					_ = sqlDB.Close()
				}
			},
		}

	default:
		return utils.NewMemoryTokenStorage(), nil
	}
}
