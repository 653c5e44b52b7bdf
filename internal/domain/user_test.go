package domain

import (
	"testing"

	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func Test_userDomain_Get(t *testing.T) {
	d := newTestDomains(t)

	tests := []struct {
		name            string
		ctxUserID       string
		req             *model.GetUserRequest
		wantName        string
		wantCommunities []string
		wantCode        errorx.Code
	}{
		{
			name:            "by id",
			req:             &model.GetUserRequest{UserID: testutil.User2.ExternalID},
			wantName:        "Bob",
			wantCommunities: []string{"Gophers", "Rustaceans"},
		},
		{
			name:            "caller",
			ctxUserID:       testutil.User1.ExternalID,
			req:             &model.GetUserRequest{},
			wantName:        "Alice",
			wantCommunities: []string{"Gophers"},
		},
		{
			name:     "unknown user",
			req:      &model.GetUserRequest{UserID: "ext_invalid"},
			wantCode: errorx.NotFound,
		},
		{
			name:     "no user",
			req:      &model.GetUserRequest{},
			wantCode: errorx.BadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.user.Get(testutil.MockContextWithUserID(tt.ctxUserID), tt.req)
			if tt.wantCode != 0 {
				requireErrorCode(t, err, tt.wantCode)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantName, resp.User.Name)

			names := []string{}
			for _, c := range resp.Communities {
				names = append(names, c.Name)
			}
			require.ElementsMatch(t, tt.wantCommunities, names)
		})
	}
}

func Test_userDomain_Update(t *testing.T) {
	d := newTestDomains(t)

	resp, err := d.user.Update(testutil.MockContextWithUserID(testutil.User1.ExternalID), &model.UpdateUserRequest{
		Name:     "Alice Liddell",
		Username: "alice_l",
		Image:    "https://img/alice2.png",
		Bio:      "down the rabbit hole",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.ID, resp.User.ID)
	require.Equal(t, "Alice Liddell", resp.User.Name)
	require.True(t, resp.User.Onboarded)

	stored, err := d.userRepo.GetByExternalID(testutil.MockContext(), testutil.User1.ExternalID)
	require.NoError(t, err)
	require.Equal(t, "alice_l", stored.Username)
	require.Equal(t, "down the rabbit hole", stored.Bio)

	resp, err = d.user.Update(testutil.MockContextWithUserID("ext_new"), &model.UpdateUserRequest{
		Name:     "Dave",
		Username: "dave",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.User.ID)
	require.Equal(t, "ext_new", resp.User.ExternalID)
	require.True(t, resp.User.Onboarded)

	_, err = d.user.Update(testutil.MockContext(), &model.UpdateUserRequest{Name: "x", Username: "xyz"})
	requireErrorCode(t, err, errorx.Unauthenticated)
}

func Test_userDomain_Sync(t *testing.T) {
	d := newTestDomains(t)
	ctx := testutil.MockContext()

	_, err := d.user.Update(testutil.MockContextWithUserID(testutil.User2.ExternalID), &model.UpdateUserRequest{
		Name:     "Bob",
		Username: "bob",
		Bio:      "builder",
	})
	require.NoError(t, err)

	resp, err := d.user.Sync(ctx, &model.SyncUserRequest{
		ExternalID: testutil.User2.ExternalID,
		Name:       "Robert",
		Username:   "robert",
		Image:      "https://img/robert.png",
	})
	require.NoError(t, err)
	require.Equal(t, testutil.User2.ID, resp.User.ID)
	require.Equal(t, "Robert", resp.User.Name)
	require.Equal(t, "builder", resp.User.Bio)
	require.True(t, resp.User.Onboarded)

	resp, err = d.user.Sync(ctx, &model.SyncUserRequest{ExternalID: "ext_new", Name: "Eve", Username: "eve"})
	require.NoError(t, err)
	require.False(t, resp.User.Onboarded)

	_, err = d.user.Sync(ctx, &model.SyncUserRequest{})
	requireErrorCode(t, err, errorx.BadRequest)
}

func Test_userDomain_Search(t *testing.T) {
	d := newTestDomains(t)
	ctx := testutil.MockContextWithUserID(testutil.User1.ExternalID)

	tests := []struct {
		name     string
		req      *model.SearchUsersRequest
		want     []string
		wantNext bool
	}{
		{
			name: "caller is excluded",
			req:  &model.SearchUsersRequest{Q: "A", Page: 1, PageSize: 10},
			want: []string{"Carol"},
		},
		{
			name: "by username",
			req:  &model.SearchUsersRequest{Q: "bo", Page: 1, PageSize: 10},
			want: []string{"Bob"},
		},
		{
			name:     "paged",
			req:      &model.SearchUsersRequest{Page: 1, PageSize: 1},
			want:     []string{"Carol"},
			wantNext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := d.user.Search(ctx, tt.req)
			require.NoError(t, err)

			names := []string{}
			for _, u := range resp.Users {
				names = append(names, u.Name)
			}
			require.Equal(t, tt.want, names)
			require.Equal(t, tt.wantNext, resp.IsNext)
		})
	}
}
