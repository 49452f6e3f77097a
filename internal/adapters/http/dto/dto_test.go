package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotevault/internal/domain"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "not found",
			err:            domain.NewNotFoundError("quote", "42"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   ErrorCodeNotFound,
		},
		{
			name:           "sync busy maps to conflict",
			err:            domain.ErrSyncBusy,
			expectedStatus: http.StatusConflict,
			expectedCode:   ErrorCodeConflict,
		},
		{
			name:           "validation",
			err:            domain.NewValidationError("text", "must not be empty"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidation,
		},
		{
			name:           "unavailable",
			err:            domain.NewUnavailableError("quote-sync", "connection refused"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   ErrorCodeUnavailable,
		},
		{
			name:           "unknown error hides details",
			err:            assert.AnError,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   ErrorCodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
		})
	}
}

func TestMapDomainError_ValidationDetails(t *testing.T) {
	_, resp := MapDomainError(domain.NewValidationError("category", "must not be empty"))

	require.NotNil(t, resp.Error.Details)
	assert.Equal(t, "must not be empty", resp.Error.Details["category"])
}

func TestMapDomainError_InternalHidesMessage(t *testing.T) {
	_, resp := MapDomainError(assert.AnError)
	assert.NotContains(t, resp.Error.Message, assert.AnError.Error())
}

func TestPaginationRequest_Defaults(t *testing.T) {
	tests := []struct {
		name           string
		req            PaginationRequest
		expectedLimit  int
		expectedOffset int
	}{
		{"zero values", PaginationRequest{}, DefaultLimit, 0},
		{"explicit", PaginationRequest{Limit: 5, Offset: 10}, 5, 10},
		{"limit above max", PaginationRequest{Limit: 500}, MaxLimit, 0},
		{"negative offset", PaginationRequest{Offset: -3}, DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedLimit, tt.req.GetLimit())
			assert.Equal(t, tt.expectedOffset, tt.req.GetOffset())
		})
	}
}

func TestNewPaginatedResponse(t *testing.T) {
	all := []int{1, 2, 3, 4, 5}

	t.Run("first page", func(t *testing.T) {
		resp := NewPaginatedResponse(all, &PaginationRequest{Limit: 2})
		assert.Equal(t, []int{1, 2}, resp.Items)
		assert.Equal(t, 5, resp.Total)
		assert.True(t, resp.HasMore)
	})

	t.Run("last page", func(t *testing.T) {
		resp := NewPaginatedResponse(all, &PaginationRequest{Limit: 2, Offset: 4})
		assert.Equal(t, []int{5}, resp.Items)
		assert.False(t, resp.HasMore)
	})

	t.Run("offset past end", func(t *testing.T) {
		resp := NewPaginatedResponse(all, &PaginationRequest{Offset: 10})
		assert.Empty(t, resp.Items)
		assert.Equal(t, 5, resp.Total)
		assert.False(t, resp.HasMore)
	})
}

type validatedPayload struct {
	Text     string `json:"text"     validate:"required,notempty"`
	Category string `json:"category" validate:"omitempty,notempty"`
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, Validate(&validatedPayload{Text: "stay curious"}))
	})

	t.Run("blank text", func(t *testing.T) {
		err := Validate(&validatedPayload{Text: "   "})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := ValidationErrors(err)
		assert.Equal(t, "must not be empty", fields["text"])
	})

	t.Run("missing text", func(t *testing.T) {
		err := Validate(&validatedPayload{})
		require.Error(t, err)

		fields := ValidationErrors(err)
		assert.Equal(t, "this field is required", fields["text"])
	})
}
