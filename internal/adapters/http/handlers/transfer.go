package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"quotevault/internal/adapters/http/dto"
	"quotevault/internal/app"
)

// TransferHandler handles JSON export and import of the quote collection.
type TransferHandler struct {
	transfer *app.Transfer
}

// NewTransferHandler creates a new transfer handler.
func NewTransferHandler(transfer *app.Transfer) *TransferHandler {
	return &TransferHandler{transfer: transfer}
}

// ImportResponse reports how many quotes an import added.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// Export handles GET /api/v1/quotes/export.
// Streams the full collection as a JSON attachment.
func (h *TransferHandler) Export(c *gin.Context) {
	payload, err := h.transfer.ExportAll(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="quotes.json"`)
	c.Data(http.StatusOK, "application/json", payload)
}

// Import handles POST /api/v1/quotes/import.
// Accepts a JSON array of quotes, validates every entry, and merges the
// new ones into the collection. A single invalid entry rejects the whole
// payload.
func (h *TransferHandler) Import(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "reading request body failed")
		return
	}

	added, err := h.transfer.ImportAll(c.Request.Context(), payload)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ImportResponse{Imported: added})
}

// RegisterRoutes registers transfer routes on the given router group.
// They live under /quotes next to the collection endpoints.
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/export", h.Export)
	quotes.POST("/import", h.Import)
}
