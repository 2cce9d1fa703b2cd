package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"myblog/app/logger"
	"myblog/app/repositories"
	"myblog/app/repositories/mongostore"
	"myblog/app/routes"
	"myblog/app/session"
	"myblog/config"
)

const (
	readTimeout     = 60 * time.Second
	writeTimeout    = readTimeout
	shutdownTimeout = 30 * time.Second
)

// backend is an opened storage driver
type backend struct {
	posts    repositories.PostRepository
	comments repositories.CommentRepository
	users    repositories.UserRepository
	close    func() error
}

func openBackend(ctx context.Context, cfg config.AppConfig) (*backend, error) {
	switch cfg.StoreDriver {
	case "badger":
		store, err := repositories.Open(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return &backend{
			posts:    store.Posts(),
			comments: store.Comments(),
			users:    store.Users(),
			close:    store.Close,
		}, nil
	case "mongo":
		store, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		return &backend{
			posts:    store.Posts(),
			comments: store.Comments(),
			users:    store.Users(),
			close: func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return store.Disconnect(ctx)
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// RunAppServer serves the blog until ctx is cancelled or SIGINT/SIGTERM arrives.
func RunAppServer(ctx context.Context, cfg config.AppConfig) error {
	if cfg.SessionSecret == "" {
		return errors.New("MYBLOG_SESSION_SECRET must be set")
	}

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := b.close(); err != nil {
			log.Error("failed to close store", zap.Error(err))
		}
	}()

	router, err := routes.Setup(routes.Deps{
		Posts:    b.posts,
		Comments: b.comments,
		Users:    b.users,
		Sessions: session.NewManager(cfg.SessionKey, []byte(cfg.SessionSecret), cfg.SessionMaxAge, cfg.SessionSecure, log),
		Log:      log,
		PerPage:  cfg.PerPage,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting server",
		zap.String("addr", ln.Addr().String()),
		zap.String("store", cfg.StoreDriver),
	)
	return Serve(ctx, srv, ln, log)
}

// Serve runs srv on ln and shuts it down gracefully once ctx is done.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
			return err
		}
		log.Info("HTTP server shutdown success")
		return nil
	})
	return g.Wait()
}
