package v1

import (
	"career-crafter/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

// Handlers bundles every authenticated v1 endpoint group.
type Handlers struct {
	Auth        fiber.Handler
	Users       *handler.UserHandler
	Resume      *handler.ResumeHandler
	CoverLetter *handler.CoverLetterHandler
	Interview   *handler.InterviewHandler
}

func Register(r fiber.Router, h Handlers) {
	if r == nil {
		return
	}

	protected := r
	if h.Auth != nil {
		protected = r.Group("", h.Auth)
	}

	if h.Users != nil {
		h.Users.RegisterRoutes(protected)
	}
	if h.Resume != nil {
		h.Resume.RegisterRoutes(protected)
	}
	if h.CoverLetter != nil {
		h.CoverLetter.RegisterRoutes(protected)
	}
	if h.Interview != nil {
		h.Interview.RegisterRoutes(protected)
	}
}
