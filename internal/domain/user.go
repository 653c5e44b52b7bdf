package domain

import (
	"context"
	"errors"
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/xcontext"
)

type UserDomain interface {
	Get(context.Context, *model.GetUserRequest) (*model.GetUserResponse, error)
	Update(context.Context, *model.UpdateUserRequest) (*model.UpdateUserResponse, error)
	Sync(context.Context, *model.SyncUserRequest) (*model.SyncUserResponse, error)
	Search(context.Context, *model.SearchUsersRequest) (*model.SearchUsersResponse, error)
}

type userDomain struct {
	userRepo       repository.UserRepository
	communityRepo  repository.CommunityRepository
	membershipRepo repository.MembershipRepository
}

func NewUserDomain(
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	membershipRepo repository.MembershipRepository,
) UserDomain {
	return &userDomain{
		userRepo:       userRepo,
		communityRepo:  communityRepo,
		membershipRepo: membershipRepo,
	}
}

func (d *userDomain) Get(ctx context.Context, req *model.GetUserRequest) (*model.GetUserResponse, error) {
	externalID := req.UserID
	if externalID == "" {
		externalID = xcontext.RequestUserID(ctx)
	}

	if externalID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	user, err := d.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch user")
	}

	communityIDs, err := d.membershipRepo.GetCommunityIDs(ctx, user.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community ids of user: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch user")
	}

	communities, err := d.communityRepo.GetByIDs(ctx, communityIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities of user: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch user")
	}

	resp := &model.GetUserResponse{User: convertUser(user), Communities: []model.CommunityInfo{}}
	for i := range communities {
		resp.Communities = append(resp.Communities, convertCommunityInfo(&communities[i]))
	}

	return resp, nil
}

// Update stores the profile of the caller and marks it as onboarded.
func (d *userDomain) Update(
	ctx context.Context, req *model.UpdateUserRequest,
) (*model.UpdateUserResponse, error) {
	externalID := xcontext.RequestUserID(ctx)
	if externalID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to sign in first")
	}

	user := &entity.User{
		Base:       entity.Base{CreatedAt: time.Now(), UpdatedAt: time.Now()},
		ExternalID: externalID,
		Name:       req.Name,
		Username:   req.Username,
		Image:      req.Image,
		Bio:        req.Bio,
		Onboarded:  true,
	}

	if err := d.userRepo.Upsert(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateUserResponse{User: convertUser(user)}, nil
}

// Sync mirrors the identity provider profile of a user. The bio and the
// onboarded flag of an existing user are kept.
func (d *userDomain) Sync(ctx context.Context, req *model.SyncUserRequest) (*model.SyncUserResponse, error) {
	if req.ExternalID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	user := &entity.User{
		Base:       entity.Base{CreatedAt: time.Now(), UpdatedAt: time.Now()},
		ExternalID: req.ExternalID,
		Name:       req.Name,
		Username:   req.Username,
		Image:      req.Image,
	}

	existing, err := d.userRepo.GetByExternalID(ctx, req.ExternalID)
	switch {
	case err == nil:
		user.ID = existing.ID
		user.Bio = existing.Bio
		user.Onboarded = existing.Onboarded
	case !errors.Is(err, repository.ErrNotFound):
		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.userRepo.Upsert(ctx, user); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upsert user: %v", err)
		return nil, errorx.Unknown
	}

	return &model.SyncUserResponse{User: convertUser(user)}, nil
}

func (d *userDomain) Search(
	ctx context.Context, req *model.SearchUsersRequest,
) (*model.SearchUsersResponse, error) {
	offset, limit, err := pagination(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := repository.UserFilter{Q: req.Q, ExcludeExternalID: xcontext.RequestUserID(ctx)}
	total, err := d.userRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count users: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch users")
	}

	users, err := d.userRepo.GetList(ctx, filter, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get users: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch users")
	}

	resp := &model.SearchUsersResponse{Users: []model.User{}, IsNext: isNext(total, offset, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, convertUser(&users[i]))
	}

	return resp, nil
}
