package xcontext

import (
	"context"
	"errors"
	"testing"

	"github.com/echo-threads/backend/config"
	"github.com/stretchr/testify/require"
)

func TestEmptyContext(t *testing.T) {
	ctx := context.Background()

	require.NotNil(t, Logger(ctx))
	require.Equal(t, config.Default(), Configs(ctx))
	require.Nil(t, DBTransaction(ctx))
	require.Empty(t, RequestUserID(ctx))
	require.Nil(t, HTTPRequest(ctx))
	require.True(t, StartTime(ctx).IsZero())
	require.NoError(t, Error(ctx))
}

func TestContextValues(t *testing.T) {
	cfg := config.Default()
	cfg.Env = "test"

	ctx := context.Background()
	ctx = WithConfigs(ctx, cfg)
	ctx = WithRequestUserID(ctx, "user_1")
	ctx = WithError(ctx, errors.New("boom"))

	require.Equal(t, "test", Configs(ctx).Env)
	require.Equal(t, "user_1", RequestUserID(ctx))
	require.EqualError(t, Error(ctx), "boom")
}
