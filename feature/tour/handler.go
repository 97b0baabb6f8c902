package tour

import (
	"context"
	"errors"
	"strings"

	"tour-admin/core/lock"
	"tour-admin/core/logger"
	"tour-admin/core/reconcile"
	"tour-admin/feature/tour/ai"
	"tour-admin/feature/tour/models"
	"tour-admin/feature/tour/store"
	"tour-admin/feature/tour/tourapi"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the tour workflow.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the tour routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tour")

	group.Get("/categories", h.HandleCategories)

	group.Post("/sync/:category", h.HandleSync)
	group.Get("/sync/status", h.HandleSyncStatus)

	group.Post("/enrich/:pass", h.HandleEnrich)
	group.Get("/enrich/progress", h.HandleEnrichProgress)

	group.Get("/orphans/:category", h.HandleFindOrphans)
	group.Post("/orphans/:category/delete", h.HandleDeleteOrphans)

	group.Get("/english/:category/unmapped", h.HandleEnglishUnmapped)
	group.Post("/english/:category/map", h.HandleEnglishMap)

	group.Get("/records/:category", h.HandleQueryRecords)
	group.Patch("/records/:category/:id", h.HandleUpdateRecord)
	group.Delete("/records/:category/:id", h.HandleDeleteRecord)
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var fetchErr *reconcile.FetchError
	var apiErr *tourapi.APIError
	switch {
	case errors.Is(err, models.ErrUnknownCategory),
		errors.Is(err, ErrUnknownPass),
		errors.Is(err, store.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrPassNotApplicable),
		errors.Is(err, ErrInvalidField),
		errors.Is(err, store.ErrInvalidQuery),
		errors.Is(err, reconcile.ErrNotConfirmed):
		return fiber.StatusBadRequest
	case errors.Is(err, lock.ErrHeld),
		errors.Is(err, ErrEnglishTaken):
		return fiber.StatusConflict
	case errors.Is(err, ai.ErrDisabled):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &fetchErr), errors.As(err, &apiErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// HandleCategories lists the category descriptors.
// @Summary List Categories
// @Tags tour
// @Produce json
// @Success 200 {array} models.Category
// @Router /tour/categories [get]
func (h *Handler) HandleCategories(c *fiber.Ctx) error {
	return c.JSON(models.Categories())
}

// HandleSync syncs one category, or every category when the path says "all".
// With ?async=true the sync runs in the background and 202 is returned.
// @Summary Sync Category
// @Description Fetch every catalog page of a category and upsert the structural fields locally. Nothing is deleted.
// @Tags tour
// @Produce json
// @Param category path string true "Category name or 'all'"
// @Param parallel query int false "Concurrent categories when syncing all"
// @Param async query bool false "Run in the background"
// @Success 200 {object} reconcile.SyncResult
// @Success 202 {object} map[string]string
// @Failure 404 {object} map[string]string "Unknown category"
// @Failure 409 {object} map[string]string "Sync already running"
// @Failure 502 {object} map[string]string "Catalog failure"
// @Router /tour/sync/{category} [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	// Params and queries alias the request buffer, which fiber reuses once
	// the handler returns. Background runs need their own copies.
	category := fiberutils.CopyString(c.Params("category"))
	parallel := c.QueryInt("parallel", 0)

	if category != "all" {
		if _, err := models.LookupCategory(category); err != nil {
			return h.fail(c, "Sync rejected", err)
		}
	}

	run := func(ctx context.Context) (any, error) {
		if category == "all" {
			return h.service.SyncAll(ctx, parallel, nil), nil
		}
		return h.service.Sync(ctx, category, nil)
	}

	if c.QueryBool("async") {
		l := logger.WithRayID(h.service.logger, c)
		go func() {
			if _, err := run(context.Background()); err != nil {
				l.Error("Background sync failed", zap.String("category", category), zap.Error(err))
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started", "category": category})
	}

	result, err := run(c.Context())
	if err != nil {
		return h.fail(c, "Sync failed", err)
	}
	return c.JSON(result)
}

// HandleSyncStatus returns the last sync state of every category.
// @Summary Sync Status
// @Tags tour
// @Produce json
// @Success 200 {object} map[string]SyncStatus
// @Router /tour/sync/status [get]
func (h *Handler) HandleSyncStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.State().SyncStatuses())
}

// HandleEnrich runs an enrichment pass.
// @Summary Run Enrichment Pass
// @Description Fill a missing field group (overview, intro, rooms, english, ai) one record at a time.
// @Tags tour
// @Produce json
// @Param pass path string true "Pass name"
// @Param category query string false "Restrict to one category"
// @Param limit query int false "Maximum records per category"
// @Param async query bool false "Run in the background"
// @Success 200 {object} EnrichSummary
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string "Pass already running"
// @Router /tour/enrich/{pass} [post]
func (h *Handler) HandleEnrich(c *fiber.Ctx) error {
	pass := fiberutils.CopyString(c.Params("pass"))
	category := fiberutils.CopyString(c.Query("category"))
	limit := c.QueryInt("limit", 0)

	if c.QueryBool("async") {
		l := logger.WithRayID(h.service.logger, c)
		go func() {
			if _, err := h.service.Enrich(context.Background(), pass, category, limit, nil); err != nil {
				l.Error("Background enrichment failed", zap.String("pass", pass), zap.Error(err))
			}
		}()
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started", "pass": pass})
	}

	summary, err := h.service.Enrich(c.Context(), pass, category, limit, nil)
	if err != nil {
		return h.fail(c, "Enrichment failed", err)
	}
	return c.JSON(summary)
}

// HandleEnrichProgress returns the live progress of every pass run so far.
// @Summary Enrichment Progress
// @Tags tour
// @Produce json
// @Success 200 {object} map[string]EnrichProgress
// @Router /tour/enrich/progress [get]
func (h *Handler) HandleEnrichProgress(c *fiber.Ctx) error {
	return c.JSON(h.service.State().EnrichProgress())
}

// HandleFindOrphans audits a category for records gone from the catalog.
// @Summary Find Orphans
// @Tags tour
// @Produce json
// @Param category path string true "Category name"
// @Success 200 {object} OrphanAudit
// @Router /tour/orphans/{category} [get]
func (h *Handler) HandleFindOrphans(c *fiber.Ctx) error {
	category := c.Params("category")

	orphans, err := h.service.FindOrphans(c.Context(), category)
	if err != nil {
		return h.fail(c, "Orphan audit failed", err)
	}
	audit, _ := h.service.State().Audit(category)
	audit.Orphans = orphans
	return c.JSON(audit)
}

// HandleDeleteOrphans deletes selected orphans after confirmation.
// @Summary Delete Orphans
// @Tags tour
// @Accept json
// @Produce json
// @Param category path string true "Category name"
// @Param request body DeleteRequest true "Selected ids"
// @Success 200 {object} reconcile.DeleteResult
// @Failure 400 {object} map[string]string "Missing confirmation"
// @Router /tour/orphans/{category}/delete [post]
func (h *Handler) HandleDeleteOrphans(c *fiber.Ctx) error {
	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.DeleteOrphans(c.Context(), c.Params("category"), req)
	if err != nil {
		return h.fail(c, "Orphan delete failed", err)
	}
	return c.JSON(result)
}

// HandleEnglishUnmapped returns the picker working lists.
// @Summary English Picker
// @Tags tour
// @Produce json
// @Param category path string true "Category name"
// @Param refresh query bool false "Rebuild the lists"
// @Success 200 {object} PickerView
// @Router /tour/english/{category}/unmapped [get]
func (h *Handler) HandleEnglishUnmapped(c *fiber.Ctx) error {
	view, err := h.service.EnglishPicker(c.Context(), c.Params("category"), c.QueryBool("refresh"))
	if err != nil {
		return h.fail(c, "English picker failed", err)
	}
	return c.JSON(view)
}

// MapRequest links a Korean record to an English one.
type MapRequest struct {
	ContentID   string `json:"content_id"`
	ContentIDEn string `json:"content_id_en"`
}

// HandleEnglishMap saves a manual English mapping.
// @Summary Map English Record
// @Tags tour
// @Accept json
// @Produce json
// @Param category path string true "Category name"
// @Param request body MapRequest true "Mapping"
// @Success 200 {object} map[string]bool
// @Failure 409 {object} map[string]string "English record already mapped"
// @Router /tour/english/{category}/map [post]
func (h *Handler) HandleEnglishMap(c *fiber.Ctx) error {
	var req MapRequest
	if err := c.BodyParser(&req); err != nil || req.ContentID == "" || req.ContentIDEn == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content_id and content_id_en are required"})
	}

	if err := h.service.MapEnglish(c.Context(), c.Params("category"), req.ContentID, req.ContentIDEn); err != nil {
		return h.fail(c, "English mapping failed", err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// HandleQueryRecords lists local records.
// @Summary Query Records
// @Tags tour
// @Produce json
// @Param category path string true "Category name"
// @Param search query string false "Title substring"
// @Param missing query string false "Comma separated enrichment fields that must be empty"
// @Param present query string false "Comma separated enrichment fields that must be set"
// @Param sort query string false "Column, '-' prefix for descending"
// @Param offset query int false "Offset"
// @Param limit query int false "Limit"
// @Success 200 {object} store.Page
// @Router /tour/records/{category} [get]
func (h *Handler) HandleQueryRecords(c *fiber.Ctx) error {
	q := store.Query{
		Search:  c.Query("search"),
		Missing: splitList(c.Query("missing")),
		Present: splitList(c.Query("present")),
		Sort:    c.Query("sort"),
		Offset:  c.QueryInt("offset", 0),
		Limit:   c.QueryInt("limit", 50),
	}

	page, err := h.service.QueryRecords(c.Context(), c.Params("category"), q)
	if err != nil {
		return h.fail(c, "Record query failed", err)
	}
	return c.JSON(page)
}

// HandleUpdateRecord patches enrichment fields of one record.
// @Summary Update Record
// @Tags tour
// @Accept json
// @Produce json
// @Param category path string true "Category name"
// @Param id path string true "Content id"
// @Success 200 {object} models.Record
// @Router /tour/records/{category}/{id} [patch]
func (h *Handler) HandleUpdateRecord(c *fiber.Ctx) error {
	var patch map[string]any
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	record, err := h.service.UpdateRecord(c.Context(), c.Params("category"), c.Params("id"), patch)
	if err != nil {
		return h.fail(c, "Record update failed", err)
	}
	return c.JSON(record)
}

// HandleDeleteRecord deletes one record. Deleting a missing record succeeds.
// @Summary Delete Record
// @Tags tour
// @Produce json
// @Param category path string true "Category name"
// @Param id path string true "Content id"
// @Success 200 {object} map[string]bool
// @Router /tour/records/{category}/{id} [delete]
func (h *Handler) HandleDeleteRecord(c *fiber.Ctx) error {
	deleted, err := h.service.DeleteRecord(c.Context(), c.Params("category"), c.Params("id"))
	if err != nil {
		return h.fail(c, "Record delete failed", err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}
