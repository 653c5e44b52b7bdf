package testutil

import (
	"context"
	"os"

	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/pkg/logger"
	"github.com/echo-threads/backend/pkg/xcontext"
)

func MockConfigs() config.Configs {
	cfg := config.Default()
	cfg.Env = "test"
	cfg.Database = config.DatabaseConfigs{Driver: config.SQLiteDriver, URI: ":memory:"}
	cfg.ApiServer.MaxLimit = 50
	return cfg
}

func MockContext() context.Context {
	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, MockConfigs())
	ctx = xcontext.WithLogger(ctx, logger.NewNopLogger())
	return ctx
}

// MockContextWithUserID returns a context authenticated as the user with the
// given identity-provider id.
func MockContextWithUserID(externalID string) context.Context {
	return xcontext.WithRequestUserID(MockContext(), externalID)
}

func EnableIntegrationTest() bool {
	return len(os.Getenv("RUN_INTEGRATION_TEST")) > 0
}
