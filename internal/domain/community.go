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
	"github.com/google/uuid"
)

type CommunityDomain interface {
	Create(context.Context, *model.CreateCommunityRequest) (*model.CreateCommunityResponse, error)
	AddMember(context.Context, *model.AddMemberRequest) (*model.AddMemberResponse, error)
	RemoveMember(context.Context, *model.RemoveMemberRequest) (*model.RemoveMemberResponse, error)
	UpdateInfo(context.Context, *model.UpdateCommunityRequest) (*model.UpdateCommunityResponse, error)
	Delete(context.Context, *model.DeleteCommunityRequest) (*model.DeleteCommunityResponse, error)
	Get(context.Context, *model.GetCommunityRequest) (*model.GetCommunityResponse, error)
	Search(context.Context, *model.SearchCommunitiesRequest) (*model.SearchCommunitiesResponse, error)
	CountThreads(context.Context, *model.CountCommunityThreadsRequest) (*model.CountCommunityThreadsResponse, error)
	GetUserCommunities(context.Context, *model.GetUserCommunitiesRequest) (*model.GetUserCommunitiesResponse, error)
}

type communityDomain struct {
	communityRepo  repository.CommunityRepository
	userRepo       repository.UserRepository
	membershipRepo repository.MembershipRepository
	threadRepo     repository.ThreadRepository
	likeRepo       repository.LikeRepository
	transactor     repository.Transactor
}

func NewCommunityDomain(
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
	membershipRepo repository.MembershipRepository,
	threadRepo repository.ThreadRepository,
	likeRepo repository.LikeRepository,
	transactor repository.Transactor,
) CommunityDomain {
	return &communityDomain{
		communityRepo:  communityRepo,
		userRepo:       userRepo,
		membershipRepo: membershipRepo,
		threadRepo:     threadRepo,
		likeRepo:       likeRepo,
		transactor:     transactor,
	}
}

func (d *communityDomain) getUser(ctx context.Context, externalID string) (*entity.User, error) {
	user, err := d.userRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	return user, nil
}

func (d *communityDomain) getCommunity(ctx context.Context, externalID string) (*entity.Community, error) {
	community, err := d.communityRepo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Community not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
		return nil, errorx.Unknown
	}

	return community, nil
}

// details joins the community with its creator and members.
func (d *communityDomain) details(ctx context.Context, community *entity.Community) (model.Community, error) {
	var creator *entity.User
	if community.CreatedBy != "" {
		user, err := d.userRepo.GetByID(ctx, community.CreatedBy)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return model.Community{}, err
		}
		creator = user
	}

	memberIDs, err := d.membershipRepo.GetUserIDs(ctx, community.ID)
	if err != nil {
		return model.Community{}, err
	}

	members, err := d.userRepo.GetByIDs(ctx, memberIDs)
	if err != nil {
		return model.Community{}, err
	}

	return convertCommunity(community, creator, members), nil
}

func (d *communityDomain) Create(
	ctx context.Context, req *model.CreateCommunityRequest,
) (*model.CreateCommunityResponse, error) {
	creator, err := d.getUser(ctx, req.CreatedByID)
	if err != nil {
		return nil, err
	}

	community := &entity.Community{
		Base:       entity.Base{ID: uuid.NewString(), CreatedAt: time.Now()},
		ExternalID: req.ID,
		Name:       req.Name,
		Username:   req.Username,
		Image:      req.Image,
		Bio:        req.Bio,
		CreatedBy:  creator.ID,
	}

	err = d.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		if err := d.communityRepo.Create(ctx, community); err != nil {
			if errors.Is(err, repository.ErrDuplicated) {
				return errorx.New(errorx.AlreadyExists, "Community already exists")
			}

			return err
		}

		return d.membershipRepo.Add(ctx, creator.ID, community.ID)
	})
	if err != nil {
		return nil, asDomainError(ctx, err, "Failed to create community")
	}

	result, err := d.details(ctx, community)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community details: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommunityResponse{Community: result}, nil
}

func (d *communityDomain) AddMember(
	ctx context.Context, req *model.AddMemberRequest,
) (*model.AddMemberResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	user, err := d.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	err = d.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := d.membershipRepo.Exists(ctx, user.ID, community.ID)
		if err != nil {
			return err
		}

		if exists {
			return errorx.New(errorx.AlreadyExists, "User is already a member of the community")
		}

		return d.membershipRepo.Add(ctx, user.ID, community.ID)
	})
	if err != nil {
		return nil, asDomainError(ctx, err, "Failed to add member")
	}

	result, err := d.details(ctx, community)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community details: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddMemberResponse{Community: result}, nil
}

func (d *communityDomain) RemoveMember(
	ctx context.Context, req *model.RemoveMemberRequest,
) (*model.RemoveMemberResponse, error) {
	user, err := d.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	err = d.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		return d.membershipRepo.Remove(ctx, user.ID, community.ID)
	})
	if err != nil {
		return nil, asDomainError(ctx, err, "Failed to remove member")
	}

	return &model.RemoveMemberResponse{Success: true}, nil
}

func (d *communityDomain) UpdateInfo(
	ctx context.Context, req *model.UpdateCommunityRequest,
) (*model.UpdateCommunityResponse, error) {
	community, err := d.communityRepo.UpdateByExternalID(ctx, req.CommunityID, repository.CommunityUpdate{
		Name:     req.Name,
		Username: req.Username,
		Image:    req.Image,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Community not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot update community: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.details(ctx, community)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community details: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommunityResponse{Community: result}, nil
}

// Delete removes the community, every thread posted in it with their replies
// and likes, and the community from the lists of its members.
func (d *communityDomain) Delete(
	ctx context.Context, req *model.DeleteCommunityRequest,
) (*model.DeleteCommunityResponse, error) {
	var deleted *entity.Community
	err := d.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		community, err := d.communityRepo.DeleteByExternalID(ctx, req.CommunityID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errorx.New(errorx.NotFound, "Community not found")
			}

			return err
		}

		threadIDs, err := d.threadRepo.GetIDs(ctx, repository.ThreadFilter{CommunityID: community.ID})
		if err != nil {
			return err
		}

		threadIDs, err = collectThreadTree(ctx, d.threadRepo, threadIDs)
		if err != nil {
			return err
		}

		if err := deleteThreads(ctx, d.threadRepo, d.likeRepo, threadIDs); err != nil {
			return err
		}

		if err := d.membershipRepo.RemoveByCommunity(ctx, community.ID); err != nil {
			return err
		}

		deleted = community
		return nil
	})
	if err != nil {
		return nil, asDomainError(ctx, err, "Failed to delete community")
	}

	return &model.DeleteCommunityResponse{Community: convertCommunity(deleted, nil, nil)}, nil
}

func (d *communityDomain) Get(
	ctx context.Context, req *model.GetCommunityRequest,
) (*model.GetCommunityResponse, error) {
	community, err := d.getCommunity(ctx, req.CommunityID)
	if err != nil {
		return nil, err
	}

	result, err := d.details(ctx, community)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get community details: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch community")
	}

	return &model.GetCommunityResponse{Community: result}, nil
}

func (d *communityDomain) Search(
	ctx context.Context, req *model.SearchCommunitiesRequest,
) (*model.SearchCommunitiesResponse, error) {
	offset, limit, err := pagination(ctx, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	filter := repository.CommunityFilter{Q: req.Q}
	total, err := d.communityRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count communities: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch communities")
	}

	communities, err := d.communityRepo.GetList(ctx, filter, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch communities")
	}

	result := []model.Community{}
	for i := range communities {
		community, err := d.details(ctx, &communities[i])
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get community details: %v", err)
			return nil, errorx.New(errorx.QueryFailure, "Failed to fetch communities")
		}
		result = append(result, community)
	}

	return &model.SearchCommunitiesResponse{
		Communities: result,
		IsNext:      isNext(total, offset, len(communities)),
	}, nil
}

func (d *communityDomain) CountThreads(
	ctx context.Context, req *model.CountCommunityThreadsRequest,
) (*model.CountCommunityThreadsResponse, error) {
	if req.CommunityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty community id")
	}

	count, err := d.threadRepo.Count(ctx, repository.ThreadFilter{CommunityID: req.CommunityID, RootOnly: true})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count threads of community: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to count threads")
	}

	return &model.CountCommunityThreadsResponse{Count: count}, nil
}

func (d *communityDomain) GetUserCommunities(
	ctx context.Context, req *model.GetUserCommunitiesRequest,
) (*model.GetUserCommunitiesResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	communities, err := d.communityRepo.GetByUser(ctx, req.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities of user: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch communities")
	}

	result := []model.CommunityInfo{}
	for i := range communities {
		result = append(result, convertCommunityInfo(&communities[i]))
	}

	return &model.GetUserCommunitiesResponse{Communities: result}, nil
}
