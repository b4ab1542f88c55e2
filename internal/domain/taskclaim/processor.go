package taskclaim

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/questx-lab/quest-engine/internal/entity"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

var errInvalidSubmission = errorx.New(errorx.BadRequest, "Invalid submission data")

func invalidSubmission(ctx context.Context, format string, args ...any) error {
	xcontext.Logger(ctx).Debugf(format, args...)
	return errInvalidSubmission
}

// JoinCommunity Processor
type joinCommunityProcessor struct {
	CommunityID string `mapstructure:"community_id" structs:"community_id"`
}

func newJoinCommunityProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*joinCommunityProcessor, error) {
	p := joinCommunityProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse && p.CommunityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found community id")
	}

	return &p, nil
}

func (p *joinCommunityProcessor) Validate(context.Context, entity.SubmissionData) error {
	return nil
}

// FollowUser Processor
type followUserProcessor struct {
	UserID string `mapstructure:"user_id" structs:"user_id"`
}

func newFollowUserProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*followUserProcessor, error) {
	p := followUserProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse && p.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found user id")
	}

	return &p, nil
}

func (p *followUserProcessor) Validate(context.Context, entity.SubmissionData) error {
	return nil
}

// SocialPost Processor
type socialPostProcessor struct {
	Platform string `mapstructure:"platform" structs:"platform"`
	Hashtag  string `mapstructure:"hashtag" structs:"hashtag"`
}

func newSocialPostProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*socialPostProcessor, error) {
	p := socialPostProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse && p.Platform == "" {
		return nil, errorx.New(errorx.BadRequest, "Not found platform")
	}

	return &p, nil
}

func (p *socialPostProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !isValidURL(data.LinkURL) {
		return invalidSubmission(ctx, "Invalid post link: %s", data.LinkURL)
	}

	return nil
}

// TwitterPost Processor
type twitterPostProcessor struct {
	Hashtag string `mapstructure:"hashtag" structs:"hashtag"`
	Account string `mapstructure:"account" structs:"account"`
}

func newTwitterPostProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*twitterPostProcessor, error) {
	p := twitterPostProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *twitterPostProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !isTwitterURL(data.LinkURL) {
		return invalidSubmission(ctx, "Invalid tweet link: %s", data.LinkURL)
	}

	return nil
}

// UploadScreenshot Processor
type uploadScreenshotProcessor struct {
	Instruction string `mapstructure:"instruction" structs:"instruction"`
}

func newUploadScreenshotProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*uploadScreenshotProcessor, error) {
	p := uploadScreenshotProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *uploadScreenshotProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !isValidURL(data.ImageURL) {
		return invalidSubmission(ctx, "Invalid image url: %s", data.ImageURL)
	}

	return nil
}

// NFTHold Processor
type nftHoldProcessor struct {
	ContractAddress string `mapstructure:"contract_address" structs:"contract_address"`
	Chain           string `mapstructure:"chain" structs:"chain"`
}

func newNFTHoldProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*nftHoldProcessor, error) {
	p := nftHoldProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse && !IsValidWalletAddress(p.ContractAddress) {
		return nil, errorx.New(errorx.BadRequest, "Invalid contract address")
	}

	return &p, nil
}

func (p *nftHoldProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !IsValidWalletAddress(data.WalletAddress) {
		return invalidSubmission(ctx, "Invalid wallet address: %s", data.WalletAddress)
	}

	return nil
}

// TokenHold Processor
type tokenHoldProcessor struct {
	ContractAddress string  `mapstructure:"contract_address" structs:"contract_address"`
	MinAmount       float64 `mapstructure:"min_amount" structs:"min_amount"`
	Chain           string  `mapstructure:"chain" structs:"chain"`
}

func newTokenHoldProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*tokenHoldProcessor, error) {
	p := tokenHoldProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse {
		if !IsValidWalletAddress(p.ContractAddress) {
			return nil, errorx.New(errorx.BadRequest, "Invalid contract address")
		}

		if p.MinAmount <= 0 {
			return nil, errorx.New(errorx.BadRequest, "Minimum amount must be positive")
		}
	}

	return &p, nil
}

func (p *tokenHoldProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !IsValidWalletAddress(data.WalletAddress) {
		return invalidSubmission(ctx, "Invalid wallet address: %s", data.WalletAddress)
	}

	if data.TxHash != "" && !isValidTxHash(data.TxHash) {
		return invalidSubmission(ctx, "Invalid tx hash: %s", data.TxHash)
	}

	return nil
}

// WalletConnect Processor
type walletConnectProcessor struct {
	Chain string `mapstructure:"chain" structs:"chain"`
}

func newWalletConnectProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*walletConnectProcessor, error) {
	p := walletConnectProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *walletConnectProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !IsValidWalletAddress(data.WalletAddress) {
		return invalidSubmission(ctx, "Invalid wallet address: %s", data.WalletAddress)
	}

	return nil
}

// VisitLink Processor
type visitLinkProcessor struct {
	Link string `mapstructure:"link" structs:"link"`
}

func newVisitLinkProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*visitLinkProcessor, error) {
	p := visitLinkProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse {
		if p.Link == "" {
			return nil, errorx.New(errorx.BadRequest, "Not found link")
		}

		if !isValidURL(p.Link) {
			return nil, errorx.New(errorx.BadRequest, "Invalid link")
		}
	}

	return &p, nil
}

func (p *visitLinkProcessor) Validate(context.Context, entity.SubmissionData) error {
	return nil
}

// Text Processor
type textProcessor struct {
	// Zero means unlimited.
	MaxLength int `mapstructure:"max_length" structs:"max_length"`
}

func newTextProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*textProcessor, error) {
	p := textProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	if needParse && p.MaxLength < 0 {
		return nil, errorx.New(errorx.BadRequest, "Max length must not be negative")
	}

	return &p, nil
}

func (p *textProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if strings.TrimSpace(data.Text) == "" {
		return invalidSubmission(ctx, "Empty text")
	}

	if p.MaxLength > 0 && utf8.RuneCountInString(data.Text) > p.MaxLength {
		return invalidSubmission(ctx, "Text is longer than %d", p.MaxLength)
	}

	return nil
}

// Custom Processor
type customProcessor struct {
	RequiresProof bool `mapstructure:"requires_proof" structs:"requires_proof"`
}

func newCustomProcessor(
	ctx context.Context, data map[string]any, needParse bool,
) (*customProcessor, error) {
	p := customProcessor{}
	if err := decode(ctx, data, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (p *customProcessor) Validate(ctx context.Context, data entity.SubmissionData) error {
	if !p.RequiresProof {
		return nil
	}

	if data.Text == "" && data.LinkURL == "" && data.ImageURL == "" {
		return invalidSubmission(ctx, "Missing proof")
	}

	return nil
}
