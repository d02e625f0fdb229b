package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nakul-26/timetable-precheck-api/internal/dto"
	"github.com/nakul-26/timetable-precheck-api/internal/service"
	appErrors "github.com/nakul-26/timetable-precheck-api/pkg/errors"
	"github.com/nakul-26/timetable-precheck-api/pkg/response"
)

const maxRosterEntities = 4096

type feasibilityAnalyzer interface {
	Analyze(ctx context.Context, req dto.AnalyzeTimetableRequest) (*dto.FeasibilityReport, error)
	ListRuns(ctx context.Context, limit int) ([]dto.AnalysisRunSummary, error)
	GetRunReport(ctx context.Context, id string) (*dto.FeasibilityReport, error)
}

// FeasibilityHandler exposes the timetable pre-check endpoints.
type FeasibilityHandler struct {
	service feasibilityAnalyzer
}

// NewFeasibilityHandler constructs the handler.
func NewFeasibilityHandler(svc *service.FeasibilityService) *FeasibilityHandler {
	return &FeasibilityHandler{service: svc}
}

// Analyze godoc
// @Summary Analyze timetable feasibility
// @Description Runs a pre-flight feasibility analysis over the supplied roster and constraint configuration without generating a timetable.
// @Tags Feasibility
// @Accept json
// @Produce json
// @Param payload body dto.AnalyzeTimetableRequest true "Roster and constraints"
// @Success 200 {object} response.Envelope
// @Router /timetable/feasibility [post]
func (h *FeasibilityHandler) Analyze(c *gin.Context) {
	var req dto.AnalyzeTimetableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid analysis payload"))
		return
	}
	if err := validateRosterSize(req); err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.service.Analyze(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

// ListRuns godoc
// @Summary List recent feasibility runs
// @Tags Feasibility
// @Produce json
// @Param limit query int false "Maximum runs to return"
// @Success 200 {object} response.Envelope
// @Router /timetable/feasibility/runs [get]
func (h *FeasibilityHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be an integer"))
			return
		}
		limit = parsed
	}
	runs, err := h.service.ListRuns(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs)
}

// GetRun godoc
// @Summary Fetch a stored feasibility report
// @Tags Feasibility
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/feasibility/runs/{id} [get]
func (h *FeasibilityHandler) GetRun(c *gin.Context) {
	report, err := h.service.GetRunReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report)
}

func validateRosterSize(req dto.AnalyzeTimetableRequest) error {
	total := len(req.Faculties) + len(req.Subjects) + len(req.Classes) + len(req.Combos) + len(req.FixedSlots)
	if total > maxRosterEntities {
		return appErrors.Clone(appErrors.ErrValidation, "roster exceeds supported size")
	}
	return nil
}
