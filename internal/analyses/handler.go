package analyses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the analyses service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses/retry/:applicationId", h.retry)
	rg.GET("/applications/:id/analysis", h.getOutcome)
	rg.GET("/postings/:id/applications", h.rank)
}

// retry runs the pipeline synchronously and returns the stored outcome.
func (h *Handler) retry(c *gin.Context) {
	applicationID, ok := pathID(c, "applicationId")
	if !ok {
		return
	}
	c.Set("applicationId", applicationID)

	outcome, err := h.Svc.RunAnalysis(c.Request.Context(), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "application not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "analysis_failed", "analysis failed; please retry later", nil)
		}
		return
	}
	respond.OK(c, outcome)
}

func (h *Handler) getOutcome(c *gin.Context) {
	applicationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Set("applicationId", applicationID)

	outcome, err := h.Svc.Get(c.Request.Context(), applicationID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}
	respond.OK(c, outcome)
}

func (h *Handler) rank(c *gin.Context) {
	postingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Set("postingId", postingID)

	ranked, err := h.Svc.Rank(c.Request.Context(), postingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "posting not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list applications", nil)
		}
		return
	}
	respond.OK(c, ranked)
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := util.ParseID(c.Param(name))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
