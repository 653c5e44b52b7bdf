package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/echo-threads/backend/internal/common"
	"github.com/echo-threads/backend/internal/middleware"
	"github.com/echo-threads/backend/pkg/authenticator"
	"github.com/echo-threads/backend/pkg/prometheus"
	"github.com/echo-threads/backend/pkg/router"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}

	if err := s.loadLogger(); err != nil {
		return err
	}

	s.loadDatabase()
	defer s.stop(context.Background())

	if err := s.loadRepos(); err != nil {
		return err
	}

	if err := s.loadStorage(); err != nil {
		return err
	}

	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadDomains()

	if err := s.loadRouter(); err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:              s.configs.ApiServer.Address(),
		Handler:           s.router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cctx.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("Starting server on %s", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Infof("Shutting down server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	return s.server.Shutdown(shutdownCtx)
}

func (s *srv) loadRouter() error {
	s.router = router.New(s.configs, s.logger)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())

	s.router.Static(http.MethodGet, "/metrics", prometheus.NewHandler(common.PromCollectors()...))
	s.router.Static(http.MethodGet, "/healthz", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	idVerifier, err := authenticator.NewOIDCVerifier(s.ctx, s.configs.Auth)
	if err != nil {
		return err
	}
	authVerifier := middleware.NewAuthVerifier(idVerifier)

	// These APIs can be called anonymously.
	publicRouter := s.router.Branch()
	publicRouter.Before(authVerifier.Middleware())
	{
		router.GET(publicRouter, "/getThreads", s.threadDomain.GetThreads)
		router.GET(publicRouter, "/getCommunityThreads", s.threadDomain.GetCommunityThreads)
		router.GET(publicRouter, "/getUserThreads", s.threadDomain.GetUserThreads)
		router.GET(publicRouter, "/getThread", s.threadDomain.Get)
		router.GET(publicRouter, "/getUser", s.userDomain.Get)
		router.GET(publicRouter, "/searchUsers", s.userDomain.Search)
		router.GET(publicRouter, "/getUserCommunities", s.communityDomain.GetUserCommunities)
		router.GET(publicRouter, "/getCommunity", s.communityDomain.Get)
		router.GET(publicRouter, "/searchCommunities", s.communityDomain.Search)
		router.GET(publicRouter, "/countCommunityThreads", s.communityDomain.CountThreads)
	}

	// These APIs need a signed-in user.
	authRouter := s.router.Branch()
	authRouter.Before(authVerifier.Middleware())
	authRouter.Before(middleware.Authenticate())
	{
		router.GET(authRouter, "/getActivity", s.threadDomain.GetActivity)
		router.POST(authRouter, "/createThread", s.threadDomain.Create)
		router.POST(authRouter, "/addComment", s.threadDomain.AddComment)
		router.POST(authRouter, "/deleteThread", s.threadDomain.Delete)
		router.POST(authRouter, "/likeThread", s.threadDomain.Like)
		router.POST(authRouter, "/unlikeThread", s.threadDomain.Unlike)
		router.POST(authRouter, "/updateUser", s.userDomain.Update)
		router.POST(authRouter, "/uploadImage", s.fileDomain.UploadImage)
	}

	webhookVerifier, err := authenticator.NewWebhookVerifier(s.configs.Webhook.Secret, s.configs.Webhook.Tolerance)
	if err != nil {
		return err
	}

	webhookRouter := s.router.Branch()
	webhookRouter.Before(middleware.WebhookSignature(webhookVerifier))
	{
		router.POST(webhookRouter, "/webhook/identity", s.webhookDomain.Identity)
	}

	return nil
}
