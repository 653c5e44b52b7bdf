package domain

import (
	"context"
	"errors"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/internal/repository"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/pubsub"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

const (
	ThreadCreatedEvent   = "thread.created"
	ThreadCommentedEvent = "thread.commented"
	ThreadLikedEvent     = "thread.liked"
	ThreadUnlikedEvent   = "thread.unliked"
	ThreadDeletedEvent   = "thread.deleted"
)

type ThreadDomain interface {
	GetThreads(context.Context, *model.GetThreadsRequest) (*model.GetThreadsResponse, error)
	GetCommunityThreads(context.Context, *model.GetCommunityThreadsRequest) (*model.GetCommunityThreadsResponse, error)
	GetUserThreads(context.Context, *model.GetUserThreadsRequest) (*model.GetUserThreadsResponse, error)
	Get(context.Context, *model.GetThreadRequest) (*model.GetThreadResponse, error)
	GetActivity(context.Context, *model.GetActivityRequest) (*model.GetActivityResponse, error)
	Create(context.Context, *model.CreateThreadRequest) (*model.CreateThreadResponse, error)
	AddComment(context.Context, *model.AddCommentRequest) (*model.AddCommentResponse, error)
	Delete(context.Context, *model.DeleteThreadRequest) (*model.DeleteThreadResponse, error)
	Like(context.Context, *model.LikeThreadRequest) (*model.LikeThreadResponse, error)
	Unlike(context.Context, *model.UnlikeThreadRequest) (*model.UnlikeThreadResponse, error)
}

type threadDomain struct {
	threadRepo    repository.ThreadRepository
	userRepo      repository.UserRepository
	communityRepo repository.CommunityRepository
	likeRepo      repository.LikeRepository
	transactor    repository.Transactor
	publisher     pubsub.Publisher
	policy        *bluemonday.Policy
}

func NewThreadDomain(
	threadRepo repository.ThreadRepository,
	userRepo repository.UserRepository,
	communityRepo repository.CommunityRepository,
	likeRepo repository.LikeRepository,
	transactor repository.Transactor,
	publisher pubsub.Publisher,
) ThreadDomain {
	return &threadDomain{
		threadRepo:    threadRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
		likeRepo:      likeRepo,
		transactor:    transactor,
		publisher:     publisher,
		policy:        bluemonday.StrictPolicy(),
	}
}

// getPage returns one page of threads matching filter and whether another
// page exists after it.
func (d *threadDomain) getPage(
	ctx context.Context, filter repository.ThreadFilter, page, pageSize int,
) ([]model.Thread, bool, error) {
	offset, limit, err := pagination(ctx, page, pageSize)
	if err != nil {
		return nil, false, err
	}

	total, err := d.threadRepo.Count(ctx, filter)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count threads: %v", err)
		return nil, false, errorx.New(errorx.QueryFailure, "Failed to fetch threads")
	}

	records, err := d.threadRepo.GetList(ctx, filter, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get threads: %v", err)
		return nil, false, errorx.New(errorx.QueryFailure, "Failed to fetch threads")
	}

	return convertThreads(records), isNext(total, offset, len(records)), nil
}

func (d *threadDomain) GetThreads(
	ctx context.Context, req *model.GetThreadsRequest,
) (*model.GetThreadsResponse, error) {
	threads, next, err := d.getPage(ctx, repository.ThreadFilter{RootOnly: true}, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetThreadsResponse{Threads: threads, IsNext: next}, nil
}

func (d *threadDomain) GetCommunityThreads(
	ctx context.Context, req *model.GetCommunityThreadsRequest,
) (*model.GetCommunityThreadsResponse, error) {
	if req.CommunityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty community id")
	}

	filter := repository.ThreadFilter{CommunityID: req.CommunityID, RootOnly: true}
	threads, next, err := d.getPage(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetCommunityThreadsResponse{Threads: threads, IsNext: next}, nil
}

func (d *threadDomain) GetUserThreads(
	ctx context.Context, req *model.GetUserThreadsRequest,
) (*model.GetUserThreadsResponse, error) {
	if req.UserID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	filter := repository.ThreadFilter{AuthorID: req.UserID, RootOnly: true}
	threads, next, err := d.getPage(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetUserThreadsResponse{Threads: threads, IsNext: next}, nil
}

func (d *threadDomain) Get(
	ctx context.Context, req *model.GetThreadRequest,
) (*model.GetThreadResponse, error) {
	if req.ThreadID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty thread id")
	}

	records, err := d.threadRepo.GetList(ctx, repository.ThreadFilter{ID: req.ThreadID}, 0, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get thread: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch thread")
	}

	if len(records) == 0 {
		return nil, errorx.New(errorx.NotFound, "Thread not found")
	}

	replies, err := d.threadRepo.GetList(ctx,
		repository.ThreadFilter{ParentIDs: []string{req.ThreadID}, OldestFirst: true}, 0, 0)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get replies of thread: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch thread")
	}

	return &model.GetThreadResponse{
		Thread:  convertThread(records[0]),
		Replies: convertThreads(replies),
	}, nil
}

func (d *threadDomain) GetActivity(
	ctx context.Context, req *model.GetActivityRequest,
) (*model.GetActivityResponse, error) {
	user, err := requestUser(ctx, d.userRepo)
	if err != nil {
		return nil, err
	}

	threadIDs, err := d.threadRepo.GetIDs(ctx, repository.ThreadFilter{AuthorID: user.ID})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get threads of user: %v", err)
		return nil, errorx.New(errorx.QueryFailure, "Failed to fetch activity")
	}

	if len(threadIDs) == 0 {
		if _, _, err := pagination(ctx, req.Page, req.PageSize); err != nil {
			return nil, err
		}

		return &model.GetActivityResponse{Replies: []model.Thread{}}, nil
	}

	filter := repository.ThreadFilter{ParentIDs: threadIDs, ExcludeAuthorID: user.ID}
	replies, next, err := d.getPage(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, err
	}

	return &model.GetActivityResponse{Replies: replies, IsNext: next}, nil
}

// sanitizeText strips every html tag from text and checks its length. The
// policy escapes the remaining entities, they are stored unescaped.
func (d *threadDomain) sanitizeText(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(html.UnescapeString(d.policy.Sanitize(text)))

	cfg := xcontext.Configs(ctx).Thread
	length := utf8.RuneCountInString(text)
	if length < cfg.MinTextLength {
		return "", errorx.New(errorx.BadRequest, "Thread must be at least %d characters", cfg.MinTextLength)
	}

	if cfg.MaxTextLength > 0 && length > cfg.MaxTextLength {
		return "", errorx.New(errorx.BadRequest, "Thread must be at most %d characters", cfg.MaxTextLength)
	}

	return text, nil
}

func (d *threadDomain) getRecord(ctx context.Context, id string) (model.Thread, error) {
	records, err := d.threadRepo.GetList(ctx, repository.ThreadFilter{ID: id}, 0, 0)
	if err != nil {
		return model.Thread{}, err
	}

	if len(records) == 0 {
		return model.Thread{}, repository.ErrNotFound
	}

	return convertThread(records[0]), nil
}

func (d *threadDomain) Create(
	ctx context.Context, req *model.CreateThreadRequest,
) (*model.CreateThreadResponse, error) {
	text, err := d.sanitizeText(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	author, err := requestUser(ctx, d.userRepo)
	if err != nil {
		return nil, err
	}

	thread := &entity.Thread{
		Base:     entity.Base{ID: uuid.NewString(), CreatedAt: time.Now()},
		Text:     text,
		AuthorID: author.ID,
	}

	if req.CommunityExternalID != "" {
		community, err := d.communityRepo.GetByExternalID(ctx, req.CommunityExternalID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, errorx.New(errorx.NotFound, "Community not found")
			}

			xcontext.Logger(ctx).Errorf("Cannot get community: %v", err)
			return nil, errorx.Unknown
		}

		thread.CommunityID = &community.ID
	}

	if err := d.threadRepo.Create(ctx, thread); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create thread: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.getRecord(ctx, thread.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get created thread: %v", err)
		return nil, errorx.Unknown
	}

	event := model.ThreadEvent{
		Type:      ThreadCreatedEvent,
		ThreadID:  thread.ID,
		UserID:    author.ID,
		Path:      req.Path,
		CreatedAt: thread.CreatedAt.Format(defaultTimeLayout),
	}
	if thread.CommunityID != nil {
		event.CommunityID = *thread.CommunityID
	}
	publishEvent(ctx, d.publisher, ThreadTopic, thread.ID, event)

	return &model.CreateThreadResponse{Thread: result}, nil
}

func (d *threadDomain) AddComment(
	ctx context.Context, req *model.AddCommentRequest,
) (*model.AddCommentResponse, error) {
	text, err := d.sanitizeText(ctx, req.Text)
	if err != nil {
		return nil, err
	}

	author, err := requestUser(ctx, d.userRepo)
	if err != nil {
		return nil, err
	}

	parent, err := d.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Thread not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get parent thread: %v", err)
		return nil, errorx.Unknown
	}

	createdAt := time.Now()
	if !createdAt.After(parent.CreatedAt) {
		createdAt = parent.CreatedAt.Add(time.Millisecond)
	}

	comment := &entity.Thread{
		Base:     entity.Base{ID: uuid.NewString(), CreatedAt: createdAt},
		Text:     text,
		AuthorID: author.ID,
		ParentID: &parent.ID,
	}

	if err := d.threadRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.getRecord(ctx, comment.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get created comment: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, ThreadTopic, parent.ID, model.ThreadEvent{
		Type:      ThreadCommentedEvent,
		ThreadID:  comment.ID,
		ParentID:  parent.ID,
		UserID:    author.ID,
		Path:      req.Path,
		CreatedAt: comment.CreatedAt.Format(defaultTimeLayout),
	})

	return &model.AddCommentResponse{Thread: result}, nil
}

func (d *threadDomain) Delete(
	ctx context.Context, req *model.DeleteThreadRequest,
) (*model.DeleteThreadResponse, error) {
	user, err := requestUser(ctx, d.userRepo)
	if err != nil {
		return nil, err
	}

	thread, err := d.threadRepo.GetByID(ctx, req.ThreadID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Thread not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get thread: %v", err)
		return nil, errorx.Unknown
	}

	if thread.AuthorID != user.ID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete the thread")
	}

	err = d.transactor.WithTransaction(ctx, func(ctx context.Context) error {
		ids, err := collectThreadTree(ctx, d.threadRepo, []string{thread.ID})
		if err != nil {
			return err
		}

		return deleteThreads(ctx, d.threadRepo, d.likeRepo, ids)
	})
	if err != nil {
		return nil, asDomainError(ctx, err, "Failed to delete thread")
	}

	event := model.ThreadEvent{
		Type:      ThreadDeletedEvent,
		ThreadID:  thread.ID,
		UserID:    user.ID,
		Path:      req.Path,
		CreatedAt: time.Now().Format(defaultTimeLayout),
	}
	if thread.ParentID != nil {
		event.ParentID = *thread.ParentID
	}
	publishEvent(ctx, d.publisher, ThreadTopic, thread.ID, event)

	return &model.DeleteThreadResponse{}, nil
}

func (d *threadDomain) like(ctx context.Context, threadID string, liked bool) ([]string, error) {
	user, err := requestUser(ctx, d.userRepo)
	if err != nil {
		return nil, err
	}

	if _, err := d.threadRepo.GetByID(ctx, threadID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorx.New(errorx.NotFound, "Thread not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get thread: %v", err)
		return nil, errorx.Unknown
	}

	eventType := ThreadLikedEvent
	if liked {
		err = d.likeRepo.Create(ctx, &entity.Like{ThreadID: threadID, UserID: user.ID, CreatedAt: time.Now()})
	} else {
		eventType = ThreadUnlikedEvent
		err = d.likeRepo.Delete(ctx, threadID, user.ID)
	}
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update like of thread: %v", err)
		return nil, errorx.Unknown
	}

	thread, err := d.getRecord(ctx, threadID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get thread: %v", err)
		return nil, errorx.Unknown
	}

	publishEvent(ctx, d.publisher, ThreadTopic, threadID, model.ThreadEvent{
		Type:      eventType,
		ThreadID:  threadID,
		UserID:    user.ID,
		CreatedAt: time.Now().Format(defaultTimeLayout),
	})

	return thread.Likes, nil
}

func (d *threadDomain) Like(
	ctx context.Context, req *model.LikeThreadRequest,
) (*model.LikeThreadResponse, error) {
	likes, err := d.like(ctx, req.ThreadID, true)
	if err != nil {
		return nil, err
	}

	return &model.LikeThreadResponse{Likes: likes}, nil
}

func (d *threadDomain) Unlike(
	ctx context.Context, req *model.UnlikeThreadRequest,
) (*model.UnlikeThreadResponse, error) {
	likes, err := d.like(ctx, req.ThreadID, false)
	if err != nil {
		return nil, err
	}

	return &model.UnlikeThreadResponse{Likes: likes}, nil
}
