package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/service"
)

type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// splitList reads a comma separated query value
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ListExercises GET /v1/exercises
func (h *CatalogHandler) ListExercises(c *fiber.Ctx) error {
	spec := domain.FilterSpec{
		Query:          c.Query("q"),
		CompoundOnly:   c.QueryBool("compound"),
		UnilateralOnly: c.QueryBool("unilateral"),
	}
	for _, m := range splitList(c.Query("muscle")) {
		spec.Muscles = append(spec.Muscles, domain.MuscleGroup(strings.ToLower(m)))
	}
	for _, e := range splitList(c.Query("equipment")) {
		spec.Equipment = append(spec.Equipment, domain.EquipmentType(strings.ToLower(e)))
	}
	for _, d := range splitList(c.Query("difficulty")) {
		spec.Difficulty = append(spec.Difficulty, domain.DifficultyLevel(strings.ToLower(d)))
	}
	if category := c.Query("category"); category != "" {
		d, err := domain.ParseDiscipline(category)
		if err != nil {
			return badRequest(c, err.Error())
		}
		spec.Category = d
	}

	records, err := h.catalogService.Filter(c.UserContext(), spec)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"count":     len(records),
		"exercises": records,
	})
}

// CreateExercise POST /v1/exercises
func (h *CatalogHandler) CreateExercise(c *fiber.Ctx) error {
	var req domain.Exercise
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	req.ID = ""
	if err := h.catalogService.CreateExercise(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(req)
}

// UpdateExercise PUT /v1/exercises/:id
func (h *CatalogHandler) UpdateExercise(c *fiber.Ctx) error {
	var req domain.Exercise
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	req.ID = c.Params("id")
	if err := h.catalogService.UpdateExercise(c.UserContext(), &req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

// DeleteExercise DELETE /v1/exercises/:id
func (h *CatalogHandler) DeleteExercise(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteExercise(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}
