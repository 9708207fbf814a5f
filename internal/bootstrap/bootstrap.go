// Package bootstrap wires the HTTP application together with fx.
package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NaveedSindha/health-wellness-tracker/internal"
	"github.com/NaveedSindha/health-wellness-tracker/internal/api"
	"github.com/NaveedSindha/health-wellness-tracker/internal/auth"
	"github.com/NaveedSindha/health-wellness-tracker/internal/config"
	"github.com/NaveedSindha/health-wellness-tracker/internal/ratelimit"
	"github.com/NaveedSindha/health-wellness-tracker/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Application is the api.App backed by the configured repositories.
type Application struct {
	logger internal.Logger
	repos  *storage.Repositories
	now    func() time.Time
}

func (a *Application) Logger() internal.Logger             { return a.logger }
func (a *Application) LogRepo() storage.DailyLogRepository { return a.repos.Logs }
func (a *Application) GoalRepo() storage.GoalRepository    { return a.repos.Goals }
func (a *Application) Now() time.Time                      { return a.now().UTC() }

var _ api.App = (*Application)(nil)

// Server is the running HTTP listener.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Addr is the address the server listens on once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Module provides every component of the server. It expects a
// *config.Config to be supplied.
var Module = fx.Options(
	fx.Provide(
		newLogger,
		newRepositories,
		newAuthProvider,
		newLimiter,
		newApplication,
		newRouter,
		newServer,
	),
	fx.Invoke(func(*Server) {}),
)

// New assembles the fx application for cfg.
func New(cfg *config.Config, opts ...fx.Option) *fx.App {
	base := []fx.Option{
		fx.Supply(cfg),
		Module,
		fx.StopTimeout(cfg.ShutdownTimeout),
		fx.WithLogger(func(l *internal.ZapLogger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap()}
		}),
	}
	return fx.New(append(base, opts...)...)
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*internal.ZapLogger, internal.Logger, error) {
	l, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, l, nil
}

func newRepositories(lc fx.Lifecycle, cfg *config.Config, logger internal.Logger) (*storage.Repositories, error) {
	repos, err := storage.NewRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			logger.Infof("closing %s storage", cfg.DBType)
			return repos.Close()
		},
	})
	return repos, nil
}

func newAuthProvider(cfg *config.Config, logger internal.Logger) (auth.Provider, error) {
	return auth.NewProvider(cfg, logger)
}

func newLimiter(lc fx.Lifecycle, cfg *config.Config) ratelimit.Limiter {
	l := ratelimit.New(cfg)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error { return l.Close() },
	})
	return l
}

func newApplication(logger internal.Logger, repos *storage.Repositories) *Application {
	return &Application{logger: logger, repos: repos, now: time.Now}
}

func newRouter(cfg *config.Config, app *Application, provider auth.Provider, limiter ratelimit.Limiter) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	return api.NewRouter(app, provider, limiter)
}

func newServer(lc fx.Lifecycle, cfg *config.Config, router *gin.Engine, logger internal.Logger) *Server {
	s := &Server{srv: &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", cfg.HTTPAddr)
			if err != nil {
				return err
			}
			s.listener = ln
			logger.Infof("server running on %s (env=%s, storage=%s, auth=%s)", ln.Addr(), cfg.Env, cfg.DBType, cfg.AuthMode)
			go func() {
				if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Errorf("http server stopped: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Infof("server stopping")
			return s.srv.Shutdown(ctx)
		},
	})
	return s
}
