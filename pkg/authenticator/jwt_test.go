package authenticator_test

import (
	"testing"
	"time"

	"github.com/questx-lab/quest-engine/pkg/authenticator"
	"github.com/stretchr/testify/require"
)

type accessToken struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

func TestJWT(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", time.Minute)
	token, err := engine.Generate("user1", accessToken{ID: "user1", Role: "admin"})
	require.NoError(t, err)

	obj, err := engine.Verify(token)
	require.NoError(t, err)
	require.Equal(t, accessToken{ID: "user1", Role: "admin"}, obj)
}

func TestJWTExpiration(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", time.Nanosecond)
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	_, err = engine.Verify(token)
	require.Error(t, err)
}

func TestJWTWrongSecret(t *testing.T) {
	engine := authenticator.NewTokenEngine[accessToken]("secret", time.Minute)
	token, err := engine.Generate("user1", accessToken{ID: "user1"})
	require.NoError(t, err)

	other := authenticator.NewTokenEngine[accessToken]("other", time.Minute)
	_, err = other.Verify(token)
	require.Error(t, err)
}
