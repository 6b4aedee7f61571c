// Package server exposes the dashboard over HTTP.
package server

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/huangsam/repopulse/core"
	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// shutdownTimeout bounds how long in-flight requests may finish after a stop signal.
const shutdownTimeout = 10 * time.Second

// Server serves dashboard requests for a DashboardService.
type Server struct {
	app     *fiber.App
	svc     *core.DashboardService
	cfg     *contract.Config
	log     *zap.SugaredLogger
	flights singleflight.Group
	now     func() time.Time
}

// dashboardBody is the inbound JSON request. Dates are ISO-8601 strings.
type dashboardBody struct {
	Repository string `json:"repository"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// New builds the fiber app and registers the routes. cfg supplies the default
// credential, the request timeout and the listen address.
func New(cfg *contract.Config, svc *core.DashboardService, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Server{svc: svc, cfg: cfg, log: log, now: time.Now}

	// Immutable because a shared build outlives the handlers that wait on it.
	app := fiber.New(fiber.Config{
		AppName:               "repopulse",
		DisableStartupMessage: true,
		Immutable:             true,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ReadTimeout:           cfg.RequestTimeout,
		WriteTimeout:          cfg.RequestTimeout,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(RequestLogger(log))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	api := app.Group("/api")
	api.Post("/dashboard", s.postDashboard)
	api.Get("/dashboard", s.getDashboard)
	api.Get("/cache/status", s.getCacheStatus)

	s.app = app
	return s
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("listening", "addr", s.cfg.ListenAddr)
		errCh <- s.app.Listen(s.cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Infow("shutting down")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		s.log.Warnw("server shutdown", "error", err)
		return err
	}
	return nil
}

func (s *Server) postDashboard(c *fiber.Ctx) error {
	var body dashboardBody
	if err := c.BodyParser(&body); err != nil {
		return writeError(c, contract.NewValidationError("body", "invalid request body: %v", err))
	}
	return s.serveDashboard(c, body)
}

func (s *Server) getDashboard(c *fiber.Ctx) error {
	return s.serveDashboard(c, dashboardBody{
		Repository: c.Query("repository"),
		StartDate:  c.Query("startDate"),
		EndDate:    c.Query("endDate"),
	})
}

func (s *Server) serveDashboard(c *fiber.Ctx, body dashboardBody) error {
	req, err := s.toRequest(c, body)
	if err != nil {
		return writeError(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	// Identical concurrent requests share one build.
	key := fmt.Sprintf("%s|%d|%d|%s", req.Repository, req.Start.UnixNano(), req.End.UnixNano(), req.Credential)
	v, err, shared := s.flights.Do(key, func() (any, error) {
		return s.svc.Build(ctx, req)
	})
	if err != nil {
		return writeError(c, err)
	}
	if shared {
		loggerFor(c, s.log).Debugw("shared dashboard build", "repository", req.Repository)
	}
	return c.JSON(schema.DashboardResponse{Success: true, Data: v.(*schema.DashboardData)})
}

func (s *Server) getCacheStatus(c *fiber.Ctx) error {
	status, err := s.svc.CacheStatus()
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(status)
}

// toRequest parses dates and resolves the credential. A bearer token in the
// Authorization header overrides the configured one.
func (s *Server) toRequest(c *fiber.Ctx, body dashboardBody) (schema.DashboardRequest, error) {
	req := schema.DashboardRequest{
		Repository: strings.TrimSpace(body.Repository),
		Credential: s.cfg.Token,
	}
	if token, ok := bearerToken(c.Get(fiber.HeaderAuthorization)); ok {
		req.Credential = token
	}

	now := s.now()
	if body.StartDate != "" {
		t, err := contract.ParseDateInput(body.StartDate, now, false)
		if err != nil {
			return req, contract.NewValidationError("startDate", "invalid startDate: %v", err)
		}
		req.Start = t
	}
	if body.EndDate != "" {
		t, err := contract.ParseDateInput(body.EndDate, now, true)
		if err != nil {
			return req, contract.NewValidationError("endDate", "invalid endDate: %v", err)
		}
		req.End = t
	}
	return req, nil
}

// requestContext derives the build context: the request timeout plus a
// logger tagged with the request id.
func (s *Server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	ctx := core.WithLogger(c.UserContext(), loggerFor(c, s.log))
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

func loggerFor(c *fiber.Ctx, log *zap.SugaredLogger) *zap.SugaredLogger {
	return log.With("request_id", requestID(c))
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
