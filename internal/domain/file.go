package domain

import (
	"context"

	"github.com/echo-threads/backend/internal/common"
	"github.com/echo-threads/backend/internal/model"
	"github.com/echo-threads/backend/pkg/storage"
)

type FileDomain interface {
	UploadImage(context.Context, *model.UploadImageRequest) (*model.UploadImageResponse, error)
}

type fileDomain struct {
	storage storage.Storage
}

func NewFileDomain(storage storage.Storage) FileDomain {
	return &fileDomain{storage: storage}
}

func (d *fileDomain) UploadImage(
	ctx context.Context, req *model.UploadImageRequest,
) (*model.UploadImageResponse, error) {
	resps, err := common.ProcessImage(ctx, d.storage, "image")
	if err != nil {
		return nil, err
	}

	sizes := map[string]string{}
	for i, resp := range resps {
		sizes[common.AvatarSizes[i].String()] = resp.Url
	}

	return &model.UploadImageResponse{Url: resps[0].Url, Sizes: sizes}, nil
}
