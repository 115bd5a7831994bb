package httpapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/services"
)

const (
	requestIDKey = "request_id"
	sessionKey   = "session"
)

// accessLog writes one line per request. Errors are rendered here so the
// logged status is the one the client sees.
func (s *Server) accessLog(c *fiber.Ctx) error {
	start := time.Now()

	if err := c.Next(); err != nil {
		if herr := c.App().ErrorHandler(c, err); herr != nil {
			_ = c.SendStatus(fiber.StatusInternalServerError)
		}
	}

	status := c.Response().StatusCode()
	args := []any{
		"method", c.Method(),
		"path", c.Path(),
		"status", status,
		"latency", time.Since(start),
		"request_id", requestID(c),
	}

	if status >= fiber.StatusInternalServerError {
		s.logger.Error(c.UserContext(), "request failed", args...)
	} else {
		s.logger.Info(c.UserContext(), "request served", args...)
	}

	return nil
}

// requireToken resolves the bearer token to a session or stops the request
// with 401.
func (s *Server) requireToken(c *fiber.Ctx) error {
	value, ok := bearerToken(c.Get(common.AuthorizationHeaderName))
	if !ok {
		return common.ErrorUnauthenticated
	}

	sess, err := s.tokens.Validate(c.UserContext(), value)
	if err != nil {
		return err
	}

	c.Locals(sessionKey, sess)
	return c.Next()
}

func bearerToken(header string) (string, bool) {
	prefix := len(common.BearerPrefix)
	if len(header) <= prefix || !strings.EqualFold(header[:prefix], common.BearerPrefix) {
		return "", false
	}
	value := strings.TrimSpace(header[prefix:])
	return value, value != ""
}

func currentSession(c *fiber.Ctx) *services.Session {
	sess, _ := c.Locals(sessionKey).(*services.Session)
	return sess
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
