package http

import (
	"encoding/json"
	"net/http"

	apperrors "tutormatch/pkg/errors"
)

type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

// Pagination describes a page-based slice over a fully filtered and sorted
// result set. TotalCount is the filtered-set size, never the raw candidate
// count.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

type PaginatedResponse struct {
	Data       any        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// NewPagination computes page metadata from the filtered-set size.
func NewPagination(totalCount int64, page, limit int) Pagination {
	if limit <= 0 {
		limit = 1
	}
	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     page < totalPages,
		HasPrev:     page > 1 && totalCount > 0,
	}
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError maps any error onto the taxonomy's HTTP classification.
// Unrecognized errors surface as opaque 500s so internals never leak.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)

	resp := ErrorResponse{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}
	if !appErr.ClientFault() {
		resp = ErrorResponse{Error: "Internal server error", Code: appErr.Code}
		if appErr.Code == apperrors.CodeUnavailable || appErr.Code == apperrors.CodeTimeout {
			resp.Error = appErr.Message
		}
	}

	return WriteJSON(w, appErr.StatusCode(), resp)
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusCreated, SuccessResponse{Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func WritePaginated(w http.ResponseWriter, data any, totalCount int64, page, limit int) error {
	return WriteJSON(w, http.StatusOK, PaginatedResponse{
		Data:       data,
		Pagination: NewPagination(totalCount, page, limit),
	})
}
