package repository

import (
	"context"
	"testing"

	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_membershipRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMembershipRepository(testutil.CreateFixtureDb())

	ok, err := repo.Exists(ctx, testutil.User2.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.Exists(ctx, testutil.User3.ID, testutil.Community1.ID)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Add(ctx, testutil.User3.ID, testutil.Community1.ID))
	require.NoError(t, repo.Add(ctx, testutil.User3.ID, testutil.Community1.ID))

	members, err := repo.GetUserIDs(ctx, testutil.Community1.ID)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"user1", "user2", "user3"}, members)

	require.NoError(t, repo.Remove(ctx, testutil.User2.ID, testutil.Community1.ID))
	require.NoError(t, repo.Remove(ctx, testutil.User2.ID, testutil.Community1.ID))

	communities, err := repo.GetCommunityIDs(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Community2.ID}, communities)

	require.NoError(t, repo.RemoveByCommunity(ctx, testutil.Community1.ID))
	members, err = repo.GetUserIDs(ctx, testutil.Community1.ID)
	require.NoError(t, err)
	require.Empty(t, members)

	communities, err = repo.GetCommunityIDs(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, []string{testutil.Community2.ID}, communities)
}
