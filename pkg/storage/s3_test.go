package storage

import (
	"strings"
	"testing"

	"github.com/echo-threads/backend/config"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey(&UploadObject{Prefix: "images", FileName: "my avatar.png"})

	require.True(t, strings.HasPrefix(key, "images/"))
	require.True(t, strings.HasSuffix(key, "-my_avatar.png"))
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3Configs
		want string
	}{
		{
			name: "public endpoint",
			cfg: config.S3Configs{
				Endpoint:       "http://minio:9000",
				PublicEndpoint: "https://cdn.example.com/",
				Bucket:         "echo",
			},
			want: "https://cdn.example.com/echo/images/a.png",
		},
		{
			name: "fallback to endpoint",
			cfg:  config.S3Configs{Endpoint: "http://minio:9000", Bucket: "echo"},
			want: "http://minio:9000/echo/images/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, publicURL(tt.cfg, "images/a.png"))
		})
	}
}
