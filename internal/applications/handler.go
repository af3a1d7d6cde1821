package applications

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/server/respond"
	"recruit-backend/internal/shared/util"
)

// Handler wires HTTP handlers to the applications service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/applications", h.submit)
	rg.GET("/applications/:id", h.get)
	rg.PATCH("/applications/:id/selection", h.setSelection)
	rg.DELETE("/applications/:id", h.withdraw)
}

type submitRequest struct {
	PostingID int64  `json:"postingId" binding:"required,gt=0"`
	ResumeID  int64  `json:"resumeId" binding:"required,gt=0"`
	UserID    string `json:"userId" binding:"required"`
	Reason    string `json:"reason" binding:"max=2000"`
}

type selectionRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	app, err := h.Svc.Submit(c.Request.Context(), SubmitInput{
		PostingID: req.PostingID,
		ResumeID:  req.ResumeID,
		UserID:    req.UserID,
		Reason:    req.Reason,
	})
	if err != nil {
		writeError(c, err, "failed to submit application")
		return
	}
	c.Set("applicationId", app.ID)
	respond.Created(c, app)
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Set("applicationId", id)

	detail, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to fetch application")
		return
	}
	respond.OK(c, detail)
}

func (h *Handler) setSelection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Set("applicationId", id)

	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}

	app, err := h.Svc.SetSelection(c.Request.Context(), id, *req.Selected)
	if err != nil {
		writeError(c, err, "failed to update selection")
		return
	}
	respond.OK(c, app)
}

func (h *Handler) withdraw(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	c.Set("applicationId", id)

	userID := c.Query("userId")
	if userID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "userId is required", nil)
		return
	}
	if err := h.Svc.Withdraw(c.Request.Context(), id, userID); err != nil {
		writeError(c, err, "failed to withdraw application")
		return
	}
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid input", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "application, posting or resume not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "resume belongs to another user", nil)
	case errors.Is(err, ErrNotOwner):
		respond.Error(c, http.StatusForbidden, "forbidden", "application belongs to another user", nil)
	case errors.Is(err, ErrPostingClosed):
		respond.Error(c, http.StatusConflict, "posting_closed", "posting is no longer accepting applications", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", fallback, nil)
	}
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := util.ParseID(c.Param(name))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", name+" must be a positive integer", nil)
		return 0, false
	}
	return id, true
}
