package router

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/echo-threads/backend/pkg/errorx"
	"github.com/echo-threads/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)
		ctx = xcontext.WithHTTPWriter(ctx, c.Writer)

		defer func() {
			for _, closer := range router.closers {
				closer(ctx)
			}
		}()

		var err error
		for _, before := range router.befores {
			ctx, err = runMiddleware(ctx, before)
			if err != nil {
				ctx = xcontext.WithError(ctx, err)
				writeResponse(c, http.StatusOK, newErrorResponse(err))
				return
			}
		}

		var req Request
		if err := bind(c, method, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
			err = errorx.New(errorx.BadRequest, "Invalid request")
			ctx = xcontext.WithError(ctx, err)
			writeResponse(c, http.StatusBadRequest, newErrorResponse(err))
			return
		}

		if err := router.validate.StructCtx(ctx, &req); err != nil {
			err = errorx.New(errorx.BadRequest, "Invalid request: %s", validationMessage(err))
			ctx = xcontext.WithError(ctx, err)
			writeResponse(c, http.StatusBadRequest, newErrorResponse(err))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeResponse(c, http.StatusOK, newErrorResponse(err))
			return
		}
		ctx = xcontext.WithResponse(ctx, resp)

		for _, after := range router.afters {
			ctx, err = runMiddleware(ctx, after)
			if err != nil {
				ctx = xcontext.WithError(ctx, err)
				writeResponse(c, http.StatusOK, newErrorResponse(err))
				return
			}
		}

		writeResponse(c, http.StatusOK, newResponse(resp))
	}
}

func runMiddleware(ctx context.Context, m MiddlewareFunc) (context.Context, error) {
	newCtx, err := m(ctx)
	if err != nil {
		return ctx, err
	}
	if newCtx == nil {
		return ctx, nil
	}
	return newCtx, nil
}

func bind(c *gin.Context, method string, req any) error {
	switch method {
	case http.MethodGet:
		return c.ShouldBindQuery(req)
	case http.MethodPost:
		if c.Request.ContentLength == 0 {
			return nil
		}

		contentType := c.ContentType()
		if strings.HasPrefix(contentType, gin.MIMEMultipartPOSTForm) {
			// Files are read by the handler itself.
			return nil
		}
		return c.ShouldBind(req)
	default:
		return errors.New("unsupported method")
	}
}
