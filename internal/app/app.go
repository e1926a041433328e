package app

import (
	"context"
	"fmt"
	"log/slog"

	"docvault/internal/activitylog"
	"docvault/internal/cache/redis"
	"docvault/internal/config"
	"docvault/internal/dbs/postgres"
	"docvault/internal/http/server"
	"docvault/internal/notify"
	cachedocsrepo "docvault/internal/repositories/cache/docs"
	cachesessionrepo "docvault/internal/repositories/cache/session"
	documentrepo "docvault/internal/repositories/db/document"
	entityrepo "docvault/internal/repositories/db/entity"
	favoriterepo "docvault/internal/repositories/db/favorite"
	sharerepo "docvault/internal/repositories/db/share"
	userrepo "docvault/internal/repositories/db/user"
	miniorepo "docvault/internal/repositories/storage/minio"
	accessservice "docvault/internal/services/access"
	authservice "docvault/internal/services/auth"
	documentservice "docvault/internal/services/document"
	favoriteservice "docvault/internal/services/favorite"
	lifecycleservice "docvault/internal/services/lifecycle"
	linkservice "docvault/internal/services/link"
	shareservice "docvault/internal/services/share"
	userservice "docvault/internal/services/user"
)

type App struct {
	Services server.Services
}

func NewApp(ctx context.Context, log *slog.Logger, cfg *config.Config) (*App, error) {
	db, err := postgres.New(ctx, postgres.Config{
		Addr:     cfg.DB.Addr,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DB:       cfg.DB.DB})
	if err != nil {
		log.Error("failed connect to db", "err", err)
		return nil, fmt.Errorf("failed connect to db: %w", err)
	}

	cache, err := redis.New(ctx, redis.Config{Addr: cfg.Cache.Addr, Password: cfg.Cache.Password, DB: cfg.Cache.DB})
	if err != nil {
		log.Error("failed connect to cache", "err", err)
		return nil, fmt.Errorf("failed connect to cache: %w", err)
	}

	fileStorage, err := miniorepo.NewRepository(ctx, miniorepo.Config{
		Endpoint:  cfg.FileStorage.Endpoint,
		AccessKey: cfg.FileStorage.AccessKey,
		SecretKey: cfg.FileStorage.SecretKey,
		Bucket:    cfg.FileStorage.Bucket,
		UseSSL:    cfg.FileStorage.UseSSL,
	})
	if err != nil {
		log.Error("failed connect to file storage", "err", err)
		return nil, fmt.Errorf("failed connect to file storage: %w", err)
	}

	userRepo := userrepo.NewRepository(db)
	docRepo := documentrepo.NewRepository(db)
	shareRepo := sharerepo.NewRepository(db)
	favoriteRepo := favoriterepo.NewRepository(db)
	entityRepo := entityrepo.NewRepository(db)

	sessionCacheRepo := cachesessionrepo.New(cache, cfg.Cache.SessionTTL)
	documentCacheRepo := cachedocsrepo.New(cache, cfg.Cache.DocumentTTL)

	notifier := notify.New(log)
	activitySink := activitylog.New(log)

	userService := userservice.New(log, userRepo, userRepo)
	authService := authservice.New(log, userService, userService, sessionCacheRepo, cfg.AdminToken)

	accessResolver := accessservice.New(log, shareRepo, entityRepo)

	documentService := documentservice.New(log, docRepo, documentCacheRepo, fileStorage, accessResolver, entityRepo, activitySink)
	lifecycleService := lifecycleservice.New(log, docRepo, fileStorage, accessResolver, documentCacheRepo, activitySink, cfg.Trash.Retention)
	shareService := shareservice.New(log, shareRepo, docRepo, userService, accessResolver, notifier, activitySink)
	linkService := linkservice.New(log, docRepo, entityRepo, accessResolver, documentCacheRepo, activitySink)
	favoriteService := favoriteservice.New(log, favoriteRepo, docRepo)

	return &App{
		Services: server.Services{
			Auth:      authService,
			Documents: documentService,
			Lifecycle: lifecycleService,
			Shares:    shareService,
			Favorites: favoriteService,
			Links:     linkService,
		},
	}, nil
}
