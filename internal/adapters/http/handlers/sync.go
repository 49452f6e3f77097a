package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quotevault/internal/adapters/http/dto"
	"quotevault/internal/app"
	"quotevault/internal/domain"
)

// SyncHandler exposes the reconciler over HTTP.
type SyncHandler struct {
	reconciler *app.Reconciler
}

// NewSyncHandler creates a new sync handler.
func NewSyncHandler(reconciler *app.Reconciler) *SyncHandler {
	return &SyncHandler{reconciler: reconciler}
}

// ResolveConflictRequest is the request body for resolving a conflict.
type ResolveConflictRequest struct {
	Keep string `json:"keep" validate:"required,oneof=local server"`
}

// ConflictsResponse lists outstanding merge conflicts.
type ConflictsResponse struct {
	Conflicts []domain.Conflict `json:"conflicts"`
}

// TriggerSync handles POST /api/v1/sync.
// Runs a full push/fetch/merge cycle. A cycle already in flight answers
// 409 with the current status left untouched.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	status, err := h.reconciler.Sync(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// SyncStatus handles GET /api/v1/sync/status.
func (h *SyncHandler) SyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.reconciler.Status())
}

// ListConflicts handles GET /api/v1/sync/conflicts.
func (h *SyncHandler) ListConflicts(c *gin.Context) {
	conflicts := h.reconciler.Conflicts()
	if conflicts == nil {
		conflicts = []domain.Conflict{}
	}

	c.JSON(http.StatusOK, ConflictsResponse{Conflicts: conflicts})
}

// ResolveConflict handles POST /api/v1/sync/conflicts/:id.
// Confirms the server copy or restores the local one.
func (h *SyncHandler) ResolveConflict(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "conflict ID is required")
		return
	}

	var req ResolveConflictRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "invalid request body")

		return
	}

	err = h.reconciler.Resolve(c.Request.Context(), id, req.Keep)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes registers sync routes on the given router group.
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	sync.POST("", h.TriggerSync)
	sync.GET("/status", h.SyncStatus)
	sync.GET("/conflicts", h.ListConflicts)
	sync.POST("/conflicts/:id", h.ResolveConflict)
}
