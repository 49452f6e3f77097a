// Package handlers provides HTTP request handlers for the service.
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quotevault/internal/adapters/http/dto"
	"quotevault/internal/app"
	"quotevault/internal/domain"
)

// QuoteHandler handles quote collection endpoints.
type QuoteHandler struct {
	store   *app.Store
	catalog *app.Catalog
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(store *app.Store, catalog *app.Catalog) *QuoteHandler {
	return &QuoteHandler{
		store:   store,
		catalog: catalog,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID        string    `json:"id,omitempty"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	UpdatedAt time.Time `json:"updatedAt"`
	Source    string    `json:"source"`
	Synced    bool      `json:"synced"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		UpdatedAt: q.UpdatedAt,
		Source:    q.Source,
		Synced:    q.Synced(),
	}
}

func toQuoteResponses(quotes []domain.Quote) []QuoteResponse {
	out := make([]QuoteResponse, len(quotes))
	for i, q := range quotes {
		out[i] = toQuoteResponse(q)
	}

	return out
}

// AddQuoteRequest is the request body for creating a quote.
type AddQuoteRequest struct {
	Text     string `json:"text"     validate:"required,notempty,max=1000"`
	Category string `json:"category" validate:"omitempty,max=100"`
}

// ListQuotes handles GET /api/v1/quotes.
// Returns the quote collection as a paginated list.
func (h *QuoteHandler) ListQuotes(c *gin.Context) {
	var page dto.PaginationRequest

	err := dto.BindQueryAndValidate(c, &page)
	if err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "invalid pagination parameters")

		return
	}

	quotes := h.store.List(c.Request.Context())

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(toQuoteResponses(quotes), &page))
}

// AddQuote handles POST /api/v1/quotes.
// Stores a new local quote and persists the collection.
func (h *QuoteHandler) AddQuote(c *gin.Context) {
	var req AddQuoteRequest

	err := dto.BindAndValidate(c, &req)
	if err != nil {
		if dto.IsValidationError(err) {
			dto.HandleValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		dto.HandleErrorCode(c, dto.ErrorCodeBadRequest, "invalid request body")

		return
	}

	// An omitted category lands in the default bucket.
	category := req.Category
	if strings.TrimSpace(category) == "" {
		category = domain.DefaultCategory
	}

	quote, err := h.store.Add(c.Request.Context(), req.Text, category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toQuoteResponse(quote))
}

// RandomQuote handles GET /api/v1/quotes/random.
// Picks a random quote, filtered by the category query parameter when
// given, the selected category otherwise.
func (h *QuoteHandler) RandomQuote(c *gin.Context) {
	category := c.Query("category")

	quote, err := h.catalog.Pick(c.Request.Context(), category)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// LastQuote handles GET /api/v1/quotes/last.
// Returns the most recently shown quote.
func (h *QuoteHandler) LastQuote(c *gin.Context) {
	quote, err := h.store.LastShown()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RegisterRoutes registers quote routes on the given router group.
func (h *QuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("", h.ListQuotes)
	quotes.POST("", h.AddQuote)
	quotes.GET("/random", h.RandomQuote)
	quotes.GET("/last", h.LastQuote)
}
