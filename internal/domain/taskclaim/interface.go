package taskclaim

import (
	"context"

	"github.com/questx-lab/quest-engine/internal/entity"
)

// Processor holds the config of one task type and checks the submission
// data of users against it.
type Processor interface {
	// Always return errorx in this method.
	Validate(ctx context.Context, data entity.SubmissionData) error
}
