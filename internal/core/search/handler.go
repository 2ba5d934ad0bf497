package search

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the search and query routes on r.
func (h *Handler) Register(r fiber.Router) {
	r.Post("/search", h.HandleCreateSearch)
	r.Get("/queries", h.HandleListQueries)
	r.Get("/queries/:id", h.HandleGetQuery)
}

func (h *Handler) HandleCreateSearch(c *fiber.Ctx) error {
	var req SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "invalid body"})
	}

	job, err := h.service.Submit(c.UserContext(), req)
	if err != nil {
		if IsValidationError(err) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": ValidationDetail(err)})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
	return c.JSON(job)
}

func (h *Handler) HandleListQueries(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

func (h *Handler) HandleGetQuery(c *fiber.Ctx) error {
	job, err := h.service.Get(c.Params("id"))
	if errors.Is(err, ErrJobNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Query not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
	}
	return c.JSON(job)
}
