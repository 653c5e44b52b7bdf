package domain

import (
	"time"

	"github.com/echo-threads/backend/internal/entity"
	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/internal/repository"
)

const defaultTimeLayout string = time.RFC3339Nano

func convertThread(r repository.ThreadRecord) model.Thread {
	thread := model.Thread{
		ID:   r.ID,
		Text: r.Text,
		Author: model.Author{
			ID:    r.Author.ID,
			Name:  r.Author.Name,
			Image: r.Author.Image,
		},
		Replies:   []model.Reply{},
		Likes:     []string{},
		CreatedAt: r.CreatedAt.Format(defaultTimeLayout),
	}

	if r.ParentID != nil {
		thread.ParentID = *r.ParentID
	}

	if r.Community != nil {
		thread.Community = &model.CommunityInfo{
			ID:    r.Community.ID,
			Name:  r.Community.Name,
			Image: r.Community.Image,
		}
	}

	for _, reply := range r.Replies {
		thread.Replies = append(thread.Replies, model.Reply{
			ID: reply.ID,
			Author: model.Author{
				ID:    reply.Author.ID,
				Name:  reply.Author.Name,
				Image: reply.Author.Image,
			},
		})
	}

	thread.Likes = append(thread.Likes, r.Likes...)
	return thread
}

func convertThreads(records []repository.ThreadRecord) []model.Thread {
	threads := []model.Thread{}
	for _, r := range records {
		threads = append(threads, convertThread(r))
	}
	return threads
}

func convertUser(user *entity.User) model.User {
	if user == nil {
		return model.User{}
	}

	return model.User{
		ID:         user.ID,
		ExternalID: user.ExternalID,
		Name:       user.Name,
		Username:   user.Username,
		Image:      user.Image,
		Bio:        user.Bio,
		Onboarded:  user.Onboarded,
		CreatedAt:  user.CreatedAt.Format(defaultTimeLayout),
	}
}

func convertMember(user *entity.User) model.Member {
	return model.Member{
		ID:       user.ID,
		Name:     user.Name,
		Username: user.Username,
		Image:    user.Image,
	}
}

func convertCommunityInfo(community *entity.Community) model.CommunityInfo {
	return model.CommunityInfo{
		ID:    community.ID,
		Name:  community.Name,
		Image: community.Image,
	}
}

func convertCommunity(community *entity.Community, creator *entity.User, members []entity.User) model.Community {
	if community == nil {
		return model.Community{}
	}

	result := model.Community{
		ID:         community.ID,
		ExternalID: community.ExternalID,
		Name:       community.Name,
		Username:   community.Username,
		Image:      community.Image,
		Bio:        community.Bio,
		Members:    []model.Member{},
		CreatedAt:  community.CreatedAt.Format(defaultTimeLayout),
	}

	if creator != nil {
		member := convertMember(creator)
		result.CreatedBy = &member
	}

	for i := range members {
		result.Members = append(result.Members, convertMember(&members[i]))
	}

	return result
}
