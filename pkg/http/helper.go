package http

import (
	"net/http"
	"strconv"

	"tutormatch/pkg/config"
	apperrors "tutormatch/pkg/errors"
)

// ExtractPageLimit reads page-based pagination parameters, normalized to
// sane bounds. Page numbering starts at 1.
func ExtractPageLimit(r *http.Request) (int, int, error) {
	query := r.URL.Query()

	page := 1
	if s := query.Get("page"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid page parameter: " + s)
		}
		page = v
	}

	limit := 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperrors.InvalidInput("invalid limit parameter: " + s)
		}
		limit = v
	}

	return config.NormalizePage(page), config.NormalizePaginationLimit(limit), nil
}

// ExtractFloat reads an optional float query parameter; returns fallback when
// absent.
func ExtractFloat(r *http.Request, key string, fallback float64) (float64, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperrors.InvalidInput("invalid " + key + " parameter: " + s)
	}
	return v, nil
}
