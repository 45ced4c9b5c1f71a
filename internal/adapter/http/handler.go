package http

import (
	"net/url"

	"resume-builder/internal/domain"
	"resume-builder/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	sections *usecase.SectionService
	log      *zap.Logger
}

func NewHandler(s *usecase.SectionService, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{sections: s, log: log}
}

// Register mounts the sections API on r.
func (h *Handler) Register(r fiber.Router) {
	r.Get("/healthz", h.Health)

	r.Get("/sections", h.List)
	r.Post("/sections", h.Create)
	r.Get("/sections/:id", h.Get)
	r.Put("/sections/:id", h.Update)
	r.Delete("/sections/:id", h.Delete)
	r.Post("/sections/:id/move", h.Move)

	r.Patch("/sections/:id/technologies", h.SetTechnologies)
	r.Post("/sections/:id/technologies", h.AddTechnology)
	r.Delete("/sections/:id/technologies/:tech", h.RemoveTechnology)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func invalidPayload(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
}

// fail reports every store error the same way.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	h.log.Warn("section request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func ack(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.sections.List(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var in domain.Section
	// an empty body creates a custom section
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidPayload(c)
		}
	}
	created, err := h.sections.Create(c.UserContext(), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	s, err := h.sections.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var patch domain.SectionPatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidPayload(c)
	}
	if err := h.sections.Update(c.UserContext(), c.Params("id"), patch); err != nil {
		return h.fail(c, err)
	}
	return ack(c)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.sections.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return ack(c)
}

type moveReq struct {
	Direction string `json:"direction"`
}

func (h *Handler) Move(c *fiber.Ctx) error {
	var req moveReq
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}
	dir, err := domain.ParseDirection(req.Direction)
	if err != nil {
		return invalidPayload(c)
	}
	if err := h.sections.Move(c.UserContext(), c.Params("id"), dir); err != nil {
		return h.fail(c, err)
	}
	return ack(c)
}

type technologiesReq struct {
	Technologies []string `json:"technologies"`
}

func (h *Handler) SetTechnologies(c *fiber.Ctx) error {
	var req technologiesReq
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload(c)
	}
	s, err := h.sections.SetTechnologies(c.UserContext(), c.Params("id"), req.Technologies)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

type techReq struct {
	Tech string `json:"tech"`
}

func (h *Handler) AddTechnology(c *fiber.Ctx) error {
	var req techReq
	if err := c.BodyParser(&req); err != nil || req.Tech == "" {
		return invalidPayload(c)
	}
	s, err := h.sections.AddTechnology(c.UserContext(), c.Params("id"), req.Tech)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) RemoveTechnology(c *fiber.Ctx) error {
	tech, err := url.PathUnescape(c.Params("tech"))
	if err != nil {
		return invalidPayload(c)
	}
	s, err := h.sections.RemoveTechnology(c.UserContext(), c.Params("id"), tech)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(s)
}
