package main

import (
	"context"
	"time"

	"github.com/cppla/mzportal/config"
	"github.com/cppla/mzportal/models"
	"github.com/cppla/mzportal/repository"
	"github.com/cppla/mzportal/routes"
	"github.com/cppla/mzportal/storage"
	"github.com/cppla/mzportal/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	db := config.InitDatabase(&models.User{}, &models.Post{}, &models.Banner{}, &models.Attachment{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := repository.NewUserRepository(db).SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminUsernames); err != nil {
		utils.Sugar.Fatalf("seed admin failed: %v", err)
	}
	if seeded, err := repository.NewBannerRepository(db).SeedDefaults(ctx); err != nil {
		utils.Sugar.Errorf("seed banners failed: %v", err)
	} else if seeded {
		utils.Sugar.Info("default banners created")
	}

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.UploadURLPrefix, int64(cfg.UploadMaxMB)<<20)
	if err != nil {
		utils.Sugar.Fatalf("upload storage unavailable: %v", err)
	}

	if n, err := repository.NewPostRepository(db, store, cfg.MaxImagesPerPost).MigrateLegacyImages(ctx); err != nil {
		utils.Sugar.Errorf("legacy image migration failed: %v", err)
	} else if n > 0 {
		utils.Sugar.Infof("migrated legacy images of %d posts", n)
	}

	// Background removal of uploads that never got attached to a post
	storage.NewSweeper(db, time.Duration(cfg.AttachmentGraceMinutes)*time.Minute).
		Start(ctx, time.Duration(cfg.AttachmentSweepMinutes)*time.Minute)

	r := routes.SetupRouter(db, store)

	srv := utils.GraceServer(":"+cfg.AppPort, r)
	srv.OnShutdown(cancel)
	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := srv.ListenAndServe(); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
