package app

import (
	"context"
	"fmt"
	"strings"

	"career-crafter/internal/config"
	"career-crafter/internal/delivery/http/handler"
	"career-crafter/internal/delivery/http/middleware"
	"career-crafter/internal/delivery/http/routes"
	v1 "career-crafter/internal/delivery/http/routes/v1"
	"career-crafter/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{AppName: c.Config.App.AppName})

	registerGlobalMiddleware(f, c.Logger)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, applies migrations when enabled and assembles the HTTP app.
func Bootstrap(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Database.AutoMigrate {
		n, err := c.Migrate(ctx)
		if err != nil {
			_ = c.Close()
			return nil, nil, err
		}
		c.Logger.WithField("applied", n).Info("[Bootstrap] migrations done")
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger logrus.FieldLogger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	health := handler.NewHealthHandler(map[string]handler.Pinger{
		"postgres": c.DB,
		"redis":    c.Redis,
	}, "redis")
	auth := middleware.NewAuthMiddleware(c.JWT, c.Users, c.Logger)

	routes.NewRegistry(health, ws.NewHandler(c.Hub, c.Logger).HandleInsightsWS, v1.Handlers{
		Auth:        auth.Middleware(),
		Users:       handler.NewUserHandler(c.Users),
		Resume:      handler.NewResumeHandler(c.Resumes),
		CoverLetter: handler.NewCoverLetterHandler(c.CoverLetters),
		Interview:   handler.NewInterviewHandler(c.Interviews),
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
