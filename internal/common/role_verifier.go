package common

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// QuestRoleVerifier allows the quest creator and global admins to manage a
// quest.
type QuestRoleVerifier struct{}

func NewQuestRoleVerifier() *QuestRoleVerifier {
	return &QuestRoleVerifier{}
}

func (verifier *QuestRoleVerifier) Verify(ctx context.Context, quest *entity.Quest) error {
	if IsGlobalAdmin(ctx) {
		return nil
	}

	if userID := xcontext.RequestUserID(ctx); userID != "" && userID == quest.CreatedBy {
		return nil
	}

	return errorx.New(errorx.PermissionDenied, "Only quest creator or admin can do this action")
}

func IsGlobalAdmin(ctx context.Context) bool {
	role := entity.GlobalRole(xcontext.RequestUserRole(ctx))
	return slices.Contains(entity.GlobalAdminRoles, role)
}
