package router

import (
	"context"
	"net/http"

	"github.com/echo-threads/backend/config"
	"github.com/echo-threads/backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before (or after) the handler. It may enrich the context
// or abort the request by returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc always runs once the response is written.
type CloserFunc func(ctx context.Context)

type Router struct {
	engine   *gin.Engine
	cfg      config.Configs
	logger   logger.Logger
	validate *validator.Validate

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

func New(cfg config.Configs, logger logger.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		engine:   engine,
		cfg:      cfg,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Branch returns a router sharing the engine and the current middlewares.
// Middlewares added to the branch do not affect the parent.
func (r *Router) Branch() *Router {
	return &Router{
		engine:   r.engine,
		cfg:      r.cfg,
		logger:   r.logger,
		validate: r.validate,
		befores:  append([]MiddlewareFunc{}, r.befores...),
		afters:   append([]MiddlewareFunc{}, r.afters...),
		closers:  append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(m MiddlewareFunc) {
	r.befores = append(r.befores, m)
}

func (r *Router) After(m MiddlewareFunc) {
	r.afters = append(r.afters, m)
}

func (r *Router) AddCloser(c CloserFunc) {
	r.closers = append(r.closers, c)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.GET(pattern, wrapHandler(r.Branch(), http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.engine.POST(pattern, wrapHandler(r.Branch(), http.MethodPost, handler))
}

// Static registers a plain http.Handler, bypassing the middlewares.
func (r *Router) Static(method, pattern string, h http.Handler) {
	r.engine.Handle(method, pattern, gin.WrapH(h))
}

func (r *Router) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   r.cfg.ApiServer.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r.engine)
}
