package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/quest-engine/config"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/logger"
	"github.com/questx-lab/quest-engine/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MockContext returns a context carrying test configs, a silent logger and a
// fresh in-memory database with every table migrated.
func MockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Env = "test"
	cfg.Auth.TokenSecret = "secret"
	cfg.Auth.TokenExpiration = time.Minute
	cfg.ApiServer.DefaultLimit = 10
	cfg.ApiServer.MaxLimit = 50
	cfg.Storage.Bucket = "quest"
	cfg.Redis.LeaderboardTTL = time.Minute

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

// AsUser switches the requester of ctx while keeping its database.
func AsUser(ctx context.Context, userID string) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, userID)
	return xcontext.WithRequestUserRole(ctx, string(entity.RoleUser))
}

func AsAdmin(ctx context.Context, userID string) context.Context {
	ctx = xcontext.WithRequestUserID(ctx, userID)
	return xcontext.WithRequestUserRole(ctx, string(entity.RoleAdmin))
}
