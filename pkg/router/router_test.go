package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/logger"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Text string `json:"text" form:"text" validate:"required,min=3"`
}

type echoResponse struct {
	Text   string `json:"text"`
	UserID string `json:"user_id"`
}

func echoHandler(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Text == "fail" {
		return nil, errorx.New(errorx.NotFound, "Not found")
	}
	return &echoResponse{Text: req.Text, UserID: xcontext.RequestUserID(ctx)}, nil
}

func newTestRouter() *Router {
	cfg := config.Default()
	r := New(cfg, logger.NewNopLogger())

	router := r.Branch()
	router.Before(func(ctx context.Context) (context.Context, error) {
		return xcontext.WithRequestUserID(ctx, "user_1"), nil
	})
	GET(router, "/echo", echoHandler)
	POST(router, "/echo", echoHandler)

	denied := r.Branch()
	denied.Before(func(ctx context.Context) (context.Context, error) {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	})
	GET(denied, "/denied", echoHandler)

	return r
}

func do(t *testing.T, r *Router, req *http.Request) (int, response, map[string]any) {
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	data, _ := resp.Data.(map[string]any)
	return rec.Code, resp, data
}

func TestRouter_GET(t *testing.T) {
	r := newTestRouter()

	status, resp, data := do(t, r, httptest.NewRequest(http.MethodGet, "/echo?text=hello", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "hello", data["text"])
	require.Equal(t, "user_1", data["user_id"])
}

func TestRouter_POST(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":"hello"}`))
	req.Header.Set("Content-Type", "application/json")
	status, resp, data := do(t, r, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, "hello", data["text"])
}

func TestRouter_Errors(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
		wantCode   errorx.Code
	}{
		{
			name:       "validation",
			req:        httptest.NewRequest(http.MethodGet, "/echo?text=hi", nil),
			wantStatus: http.StatusBadRequest,
			wantCode:   errorx.BadRequest,
		},
		{
			name: "malformed json",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"text":`))
				req.Header.Set("Content-Type", "application/json")
				return req
			}(),
			wantStatus: http.StatusBadRequest,
			wantCode:   errorx.BadRequest,
		},
		{
			name:       "domain error",
			req:        httptest.NewRequest(http.MethodGet, "/echo?text=fail", nil),
			wantStatus: http.StatusOK,
			wantCode:   errorx.NotFound,
		},
		{
			name:       "middleware error",
			req:        httptest.NewRequest(http.MethodGet, "/denied?text=hello", nil),
			wantStatus: http.StatusOK,
			wantCode:   errorx.Unauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp, _ := do(t, r, tt.req)
			require.Equal(t, tt.wantStatus, status)
			require.Equal(t, int64(tt.wantCode), resp.Code)
			require.NotEmpty(t, resp.Error)
		})
	}
}

func TestRouter_Closer(t *testing.T) {
	r := New(config.Default(), logger.NewNopLogger())

	var gotErr error
	called := false
	r.AddCloser(func(ctx context.Context) {
		called = true
		gotErr = xcontext.Error(ctx)
	})
	GET(r, "/echo", echoHandler)

	do(t, r, httptest.NewRequest(http.MethodGet, "/echo?text=fail", nil))
	require.True(t, called)

	var errx errorx.Error
	require.ErrorAs(t, gotErr, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}
