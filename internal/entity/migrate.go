package entity

import (
	"context"

	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Quest{},
		&Task{},
		&Participant{},
		&Submission{},
		&PayReward{},
	)
}
