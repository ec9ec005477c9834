package handler

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/flexpro/internal/domain"
	"github.com/mansoorceksport/flexpro/internal/middleware"
	"github.com/mansoorceksport/flexpro/internal/service"
	"github.com/mansoorceksport/flexpro/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

const defaultSuggestionLimit = 5

type ProgramHandler struct {
	programService *service.ProgramService
}

func NewProgramHandler(programService *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

// dayRequest holds the path parameters shared by the day routes
type dayRequest struct {
	coachID   string
	programID string
	day       int
}

func parseDay(c *fiber.Ctx) (dayRequest, error) {
	day, err := c.ParamsInt("day")
	if err != nil {
		return dayRequest{}, fiber.NewError(fiber.StatusBadRequest, "day must be an integer")
	}
	req := dayRequest{
		coachID:   middleware.UserID(c),
		programID: c.Params("id"),
		day:       day,
	}
	telemetry.SetSpanAttribute(c, "program.id", req.programID)
	return req, nil
}

func parseIndex(c *fiber.Ctx) (int, error) {
	index, err := c.ParamsInt("index")
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "index must be an integer")
	}
	return index, nil
}

// decodePatch reads a JSON object body keeping numbers exact
func decodePatch(body []byte) (domain.Patch, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var patch domain.Patch
	if err := dec.Decode(&patch); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "body must be a JSON object")
	}
	return patch, nil
}

func dayResponse(day int, entries []domain.Entry) fiber.Map {
	views := make([]domain.NormalizedView, len(entries))
	for i, e := range entries {
		views[i] = domain.ReadUniform(e)
	}
	return fiber.Map{
		"day":     day,
		"entries": entries,
		"views":   views,
	}
}

// --- Programs ---

// CreateProgram POST /v1/programs
func (h *ProgramHandler) CreateProgram(c *fiber.Ctx) error {
	var req domain.Program
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	created, err := h.programService.Create(c.UserContext(), middleware.UserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ListPrograms GET /v1/programs
func (h *ProgramHandler) ListPrograms(c *fiber.Ctx) error {
	programs, err := h.programService.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(programs)
}

// GetProgram GET /v1/programs/:id
func (h *ProgramHandler) GetProgram(c *fiber.Ctx) error {
	p, err := h.programService.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// SaveProgram POST /v1/programs/:id/save
func (h *ProgramHandler) SaveProgram(c *fiber.Ctx) error {
	p, err := h.programService.Save(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// DeleteProgram DELETE /v1/programs/:id
func (h *ProgramHandler) DeleteProgram(c *fiber.Ctx) error {
	if err := h.programService.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// --- Days ---

// InitializeDay POST /v1/programs/:id/days/:day
func (h *ProgramHandler) InitializeDay(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	if err := h.programService.InitializeDay(c.UserContext(), r.coachID, r.programID, r.day); err != nil {
		return respondError(c, err)
	}
	entries, err := h.programService.Day(c.UserContext(), r.coachID, r.programID, r.day)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dayResponse(r.day, entries))
}

// RemoveDay DELETE /v1/programs/:id/days/:day
func (h *ProgramHandler) RemoveDay(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	if err := h.programService.RemoveDay(c.UserContext(), r.coachID, r.programID, r.day); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "deleted"})
}

// CopyDay POST /v1/programs/:id/days/:day/copy
func (h *ProgramHandler) CopyDay(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	var req struct {
		ToDay int `json:"to_day"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	entries, err := h.programService.CopyDay(c.UserContext(), r.coachID, r.programID, r.day, req.ToDay)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dayResponse(req.ToDay, entries))
}

// GetDay GET /v1/programs/:id/days/:day
func (h *ProgramHandler) GetDay(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	entries, err := h.programService.Day(c.UserContext(), r.coachID, r.programID, r.day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dayResponse(r.day, entries))
}

// --- Exercises ---

// AddExercise POST /v1/programs/:id/days/:day/exercises
// Body: {"type": "resistance", ...field overrides}
func (h *ProgramHandler) AddExercise(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	overrides, err := decodePatch(c.Body())
	if err != nil {
		return err
	}
	discipline, _ := overrides["type"].(string)
	if strings.TrimSpace(discipline) == "" {
		return badRequest(c, "type is required")
	}
	delete(overrides, "type")

	inst, err := h.programService.BuildInstance(c.UserContext(), discipline, overrides)
	if err != nil {
		return respondError(c, err)
	}
	entry, err := h.programService.AddExercise(c.UserContext(), r.coachID, r.programID, r.day, inst)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// UpdateExercise PATCH /v1/programs/:id/days/:day/exercises/:index
func (h *ProgramHandler) UpdateExercise(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	patch, err := decodePatch(c.Body())
	if err != nil {
		return err
	}
	entry, err := h.programService.UpdateExercise(c.UserContext(), r.coachID, r.programID, r.day, index, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// RemoveExercise DELETE /v1/programs/:id/days/:day/exercises/:index
func (h *ProgramHandler) RemoveExercise(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	removed, err := h.programService.RemoveExercise(c.UserContext(), r.coachID, r.programID, r.day, index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(removed)
}

// DuplicateExercise POST /v1/programs/:id/days/:day/exercises/:index/duplicate
func (h *ProgramHandler) DuplicateExercise(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	entry, err := h.programService.DuplicateExercise(c.UserContext(), r.coachID, r.programID, r.day, index)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// MoveExercise POST /v1/programs/:id/days/:day/move
func (h *ProgramHandler) MoveExercise(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	entries, err := h.programService.MoveExercise(c.UserContext(), r.coachID, r.programID, r.day, req.From, req.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dayResponse(r.day, entries))
}

// LinkSuperset POST /v1/programs/:id/days/:day/supersets
func (h *ProgramHandler) LinkSuperset(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	var req struct {
		First  int `json:"first"`
		Second int `json:"second"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid body")
	}
	if err := h.programService.LinkSuperset(c.UserContext(), r.coachID, r.programID, r.day, req.First, req.Second); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "linked"})
}

// UnlinkSuperset DELETE /v1/programs/:id/days/:day/exercises/:index/superset
func (h *ProgramHandler) UnlinkSuperset(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	index, err := parseIndex(c)
	if err != nil {
		return err
	}
	if err := h.programService.UnlinkSuperset(c.UserContext(), r.coachID, r.programID, r.day, index); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "unlinked"})
}

// --- Analytics ---

// GetAnalytics GET /v1/programs/:id/days/:day/analytics
func (h *ProgramHandler) GetAnalytics(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	analytics, err := h.programService.Analytics(c.UserContext(), r.coachID, r.programID, r.day)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(analytics)
}

// GetSuggestions GET /v1/programs/:id/days/:day/suggestions?limit=5
func (h *ProgramHandler) GetSuggestions(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	limit := c.QueryInt("limit", defaultSuggestionLimit)
	if limit <= 0 {
		return badRequest(c, "limit must be positive")
	}
	records, err := h.programService.Suggestions(c.UserContext(), r.coachID, r.programID, r.day, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"suggestions": records})
}

// CreateReport POST /v1/programs/:id/days/:day/report
// The report is uploaded to object storage when it is configured.
func (h *ProgramHandler) CreateReport(c *fiber.Ctx) error {
	r, err := parseDay(c)
	if err != nil {
		return err
	}
	report, err := h.programService.Report(c.UserContext(), r.coachID, r.programID, r.day)
	if err != nil {
		return respondError(c, err)
	}
	resp := fiber.Map{"report": report}
	if h.programService.CanExport() {
		url, err := h.programService.ExportReport(c.UserContext(), report)
		if err != nil {
			return respondError(c, err)
		}
		telemetry.AddSpanEvent(c, "report.exported", attribute.String("report.url", url))
		resp["url"] = url
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}
