package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ListResponse is the paginated envelope returned by list endpoints.
type ListResponse struct {
	Items      interface{}       `json:"items"`
	Pagination PaginationPayload `json:"pagination"`
}

// PaginationPayload mirrors models.Pagination in the wire format.
type PaginationPayload struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// MessageResponse is returned by delete endpoints.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// queryLimit reads an integer limit query parameter, falling back to a
// default for missing or malformed values.
func queryLimit(c echo.Context, fallback int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return fallback
	}
	return limit
}
