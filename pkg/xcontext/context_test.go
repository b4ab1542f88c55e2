package xcontext

import (
	"context"
	"testing"

	"github.com/questx-lab/quest-engine/config"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type item struct {
	ID   string `gorm:"primaryKey"`
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&item{}))
	return db
}

func TestRequestUser(t *testing.T) {
	ctx := context.Background()
	require.Equal(t, "", RequestUserID(ctx))

	ctx = WithRequestUserID(ctx, "user1")
	ctx = WithRequestUserRole(ctx, "admin")
	require.Equal(t, "user1", RequestUserID(ctx))
	require.Equal(t, "admin", RequestUserRole(ctx))
}

func TestConfigs_Default(t *testing.T) {
	require.Equal(t, config.Default(), Configs(context.Background()))

	cfg := config.Default()
	cfg.Env = "test"
	require.Equal(t, "test", Configs(WithConfigs(context.Background(), cfg)).Env)
}

func TestDBTransaction_Commit(t *testing.T) {
	ctx := WithDB(context.Background(), newTestDB(t))

	txCtx := WithDBTransaction(ctx)
	require.NoError(t, DB(txCtx).Create(&item{ID: "1", Name: "foo"}).Error)
	require.NoError(t, WithCommitDBTransaction(txCtx))
	WithRollbackDBTransaction(txCtx)

	var count int64
	require.NoError(t, DB(ctx).Model(&item{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestDBTransaction_Rollback(t *testing.T) {
	ctx := WithDB(context.Background(), newTestDB(t))

	func() {
		txCtx := WithDBTransaction(ctx)
		defer WithRollbackDBTransaction(txCtx)
		require.NoError(t, DB(txCtx).Create(&item{ID: "1", Name: "foo"}).Error)
	}()

	var count int64
	require.NoError(t, DB(ctx).Model(&item{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}
