package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/quest-engine/internal/model"
	"github.com/questx-lab/quest-engine/pkg/authenticator"
	"github.com/questx-lab/quest-engine/pkg/errorx"
	"github.com/questx-lab/quest-engine/pkg/router"
	"github.com/questx-lab/quest-engine/pkg/xcontext"
)

const authorizationHeader = "Authorization"

type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine}
}

// Middleware sets the requester of the request if it carries a bearer access
// token. A request without token stays anonymous, a bad token is rejected.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return ctx, nil
		}

		header := req.Header.Get(authorizationHeader)
		if header == "" {
			return ctx, nil
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid authorization header")
		}

		info, err := a.tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid or expired access token")
		}

		ctx = xcontext.WithRequestUserID(ctx, info.ID)
		ctx = xcontext.WithRequestUserRole(ctx, info.Role)
		return ctx, nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
