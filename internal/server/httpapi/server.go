// Package httpapi exposes the services over HTTP/JSON using fiber.
package httpapi

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/logging"
	"github.com/dmitrijs2005/gophtasks/internal/server/config"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	app     *fiber.App
	address string
	logger  logging.Logger
	users   *services.UserService
	tokens  *services.TokenService
	tasks   *services.TaskService
}

func NewServer(c *config.Config, l logging.Logger, us *services.UserService, ts *services.TokenService, tks *services.TaskService) *Server {
	s := &Server{
		address: c.EndpointAddrHTTP,
		logger:  l.With("module", "http_server"),
		users:   us,
		tokens:  ts,
		tasks:   tks,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "gophtasks",
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           c.ReadTimeout,
		WriteTimeout:          c.WriteTimeout,
		DisableStartupMessage: true,
	})

	s.app.Use(requestid.New(requestid.Config{
		Header:     common.RequestIDHeaderName,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	s.app.Use(s.accessLog)
	s.app.Use(recover.New())

	s.routes()

	return s
}

// App gives tests access to the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) routes() {
	auth := s.requireToken

	s.app.Get("/health", s.health)

	s.app.Post("/register", s.register)
	s.app.Post("/login", s.login)
	s.app.Post("/logout", auth, s.logout)
	s.app.Post("/logout/all", auth, s.logoutAll)

	s.app.Get("/user", auth, s.currentUser)
	s.app.Put("/user/profile", auth, s.updateProfile)

	s.app.Get("/tasks", auth, s.listTasks)
	s.app.Post("/tasks", auth, s.createTask)
	s.app.Get("/tasks/:id", auth, s.getTask)
	s.app.Put("/tasks/:id", auth, s.updateTask)
	s.app.Delete("/tasks/:id", auth, s.deleteTask)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := s.app.Listen(s.address); err != nil {
		return err
	}

	return nil
}
