package taskclaim

import (
	"context"

	"github.com/fatih/structs"
	"github.com/mitchellh/mapstructure"
	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

// NewProcessor decodes the task config into the processor of its type. If
// needParse is true, the config is also checked for required fields.
func NewProcessor(
	ctx context.Context,
	taskType entity.TaskType,
	data map[string]any,
	needParse bool,
) (Processor, error) {
	var processor Processor
	var err error
	switch taskType {
	case entity.TaskJoinCommunity:
		processor, err = newJoinCommunityProcessor(ctx, data, needParse)

	case entity.TaskFollowUser:
		processor, err = newFollowUserProcessor(ctx, data, needParse)

	case entity.TaskSocialPost:
		processor, err = newSocialPostProcessor(ctx, data, needParse)

	case entity.TaskTwitterPost:
		processor, err = newTwitterPostProcessor(ctx, data, needParse)

	case entity.TaskUploadScreenshot:
		processor, err = newUploadScreenshotProcessor(ctx, data, needParse)

	case entity.TaskNFTHold:
		processor, err = newNFTHoldProcessor(ctx, data, needParse)

	case entity.TaskTokenHold:
		processor, err = newTokenHoldProcessor(ctx, data, needParse)

	case entity.TaskWalletConnect:
		processor, err = newWalletConnectProcessor(ctx, data, needParse)

	case entity.TaskVisitLink:
		processor, err = newVisitLinkProcessor(ctx, data, needParse)

	case entity.TaskText:
		processor, err = newTextProcessor(ctx, data, needParse)

	case entity.TaskCustom:
		processor, err = newCustomProcessor(ctx, data, needParse)

	default:
		return nil, errorx.New(errorx.BadRequest, "Invalid task type %s", taskType)
	}

	if err != nil {
		return nil, err
	}

	return processor, nil
}

// NormalizeConfig parses the config of a new or updated task and returns it
// without unknown fields.
func NormalizeConfig(
	ctx context.Context, taskType entity.TaskType, data map[string]any,
) (entity.Map, error) {
	processor, err := NewProcessor(ctx, taskType, data, true)
	if err != nil {
		return nil, err
	}

	return structs.Map(processor), nil
}

func decode(ctx context.Context, data map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create decoder: %v", err)
		return errorx.Unknown
	}

	if err := decoder.Decode(data); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot decode task config: %v", err)
		return errorx.New(errorx.BadRequest, "Invalid task config")
	}

	return nil
}
