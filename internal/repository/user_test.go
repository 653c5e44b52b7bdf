package repository

import (
	"context"
	"testing"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.CreateFixtureDb())

	created := &entity.User{ExternalID: "ext_user4", Name: "Dave", Username: "dave"}
	require.NoError(t, repo.Upsert(ctx, created))
	require.NotEmpty(t, created.ID)

	updated := &entity.User{
		ExternalID: testutil.User1.ExternalID,
		Name:       "Alice Liddell",
		Username:   "alice",
		Bio:        "down the rabbit hole",
		Onboarded:  true,
	}
	require.NoError(t, repo.Upsert(ctx, updated))
	require.Equal(t, testutil.User1.ID, updated.ID)

	user, err := repo.GetByExternalID(ctx, testutil.User1.ExternalID)
	require.NoError(t, err)
	require.Equal(t, "Alice Liddell", user.Name)
	require.Equal(t, "down the rabbit hole", user.Bio)

	count, err := repo.Count(ctx, UserFilter{})
	require.NoError(t, err)
	require.Equal(t, int64(4), count)
}

func Test_userRepository_GetList(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.CreateFixtureDb())

	tests := []struct {
		name   string
		filter UserFilter
		want   []string
	}{
		{
			name:   "all newest first",
			filter: UserFilter{},
			want:   []string{"user3", "user2", "user1"},
		},
		{
			name:   "search is case insensitive",
			filter: UserFilter{Q: "ALI"},
			want:   []string{"user1"},
		},
		{
			name:   "underscore is not a wildcard",
			filter: UserFilter{Q: "_"},
			want:   []string{},
		},
		{
			name:   "percent is not a wildcard",
			filter: UserFilter{Q: "a%e"},
			want:   []string{},
		},
		{
			name:   "exclude caller",
			filter: UserFilter{ExcludeExternalID: testutil.User3.ExternalID},
			want:   []string{"user2", "user1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.GetList(ctx, tt.filter, 0, 10)
			require.NoError(t, err)

			got := []string{}
			for _, u := range users {
				got = append(got, u.ID)
			}
			require.Equal(t, tt.want, got)
		})
	}
}

func Test_userRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(testutil.CreateFixtureDb())

	user, err := repo.GetByID(ctx, testutil.User2.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ExternalID, user.ExternalID)

	_, err = repo.GetByID(ctx, "invalid")
	require.ErrorIs(t, err, ErrNotFound)

	users, err := repo.GetByIDs(ctx, []string{testutil.User3.ID, testutil.User1.ID})
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, testutil.User1.ID, users[0].ID)
}
