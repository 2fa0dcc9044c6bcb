package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	searcherrors "tutormatch/internal/search/errors"
	"tutormatch/internal/search/repository"
	"tutormatch/internal/search/validator"
	"tutormatch/pkg/config"
	apperrors "tutormatch/pkg/errors"
	"tutormatch/pkg/geo"
	"tutormatch/pkg/model"
	"tutormatch/pkg/sanitizer"
)

// Result is one ranked search hit: the candidate, its haversine distance from
// the search point, and the offerings that matched the filters.
type Result struct {
	Tutor            *model.TutorCandidate   `json:"tutor"`
	DistanceKm       float64                 `json:"distance_km"`
	MatchedOfferings []model.SubjectOffering `json:"matched_offerings"`
}

type SearchService interface {
	Search(ctx context.Context, q *validator.Query) ([]*Result, int64, error)
	GetByID(ctx context.Context, id string) (*model.TutorCandidate, error)
}

type searchService struct {
	repo      repository.TutorRepository
	validator *validator.SearchValidator
	cfg       *config.Config
}

func NewSearchService(
	repo repository.TutorRepository,
	validator *validator.SearchValidator,
	cfg *config.Config,
) SearchService {
	return &searchService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Search runs the full pipeline: geo pre-filter at the repository, haversine
// re-validation, attribute filters, ranking, then pagination. The returned
// total is the size of the filtered set, so page math reflects what the
// caller can actually walk.
func (s *searchService) Search(ctx context.Context, q *validator.Query) ([]*Result, int64, error) {
	s.normalize(q)
	if err := s.validator.Validate(q); err != nil {
		s.cfg.Log.Warn("Search query validation failed", "error", err)
		return nil, 0, apperrors.Validation("Search query validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	candidates, err := s.repo.FindNear(ctx, q.Lat, q.Lng, q.RadiusKm)
	if err != nil {
		s.cfg.Log.Error("Failed to load tutor candidates",
			"lat", q.Lat,
			"lng", q.Lng,
			"radius_km", q.RadiusKm,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to search tutors", err)
	}

	filtered := s.filter(q, candidates)
	s.rank(q, filtered)

	total := int64(len(filtered))
	page := s.paginate(q, filtered)
	for _, r := range page {
		r.DistanceKm = geo.RoundKm(r.DistanceKm)
	}

	s.cfg.Log.Debug("Tutor search completed",
		"candidates", len(candidates),
		"matched", total,
		"page", q.Page,
		"returned", len(page),
	)
	return page, total, nil
}

func (s *searchService) GetByID(ctx context.Context, id string) (*model.TutorCandidate, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Tutor ID cannot be empty")
	}

	tutor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, searcherrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Tutor", id)
		}
		if errors.Is(err, searcherrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid tutor ID format")
		}
		s.cfg.Log.Error("Failed to get tutor by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve tutor", err)
	}

	return tutor, nil
}

func (s *searchService) normalize(q *validator.Query) {
	q.Subject = sanitizer.NormalizeSubject(q.Subject)
	q.Class = sanitizer.NormalizeToken(q.Class)
	q.Board = sanitizer.NormalizeToken(q.Board)
	q.Mode = sanitizer.NormalizeToken(q.Mode)
	q.FreeText = sanitizer.NormalizeSubject(q.FreeText)
	q.Sort = sanitizer.NormalizeToken(q.Sort)
	if q.Sort == "" {
		q.Sort = "rating"
	}
	q.Page = config.NormalizePage(q.Page)
	q.Limit = config.NormalizePaginationLimit(q.Limit)
}

func (s *searchService) filter(q *validator.Query, candidates []*model.TutorCandidate) []*Result {
	results := make([]*Result, 0, len(candidates))

	for _, t := range candidates {
		if !t.Eligible() {
			continue
		}

		// The 2dsphere index pre-filter approximates the boundary; the
		// haversine distance is authoritative for inclusion.
		distance := geo.DistanceKm(q.Lat, q.Lng, t.Location.Latitude(), t.Location.Longitude())
		if distance > q.RadiusKm {
			continue
		}

		if q.Mode != "" && !t.TeachesMode(q.Mode) {
			continue
		}
		if q.MinRating > 0 && t.RatingAvg < q.MinRating {
			continue
		}
		if q.FreeText != "" && !matchesFreeText(t, q.FreeText) {
			continue
		}

		matched := t.MatchingOfferings(q.Subject, q.Class, q.Board)
		if len(matched) == 0 {
			continue
		}
		if q.MaxPrice > 0 && minPrice(matched) > q.MaxPrice {
			continue
		}

		// Full precision here; ranking compares raw distances and the
		// returned page is rounded for display afterwards.
		results = append(results, &Result{
			Tutor:            t,
			DistanceKm:       distance,
			MatchedOfferings: matched,
		})
	}

	return results
}

// matchesFreeText applies the free-text filter as a case-insensitive
// substring match over the tutor name and offered subjects.
func matchesFreeText(t *model.TutorCandidate, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(t.Name), needle) {
		return true
	}
	for _, o := range t.Subjects {
		if strings.Contains(strings.ToLower(o.Subject), needle) {
			return true
		}
	}
	return false
}

func minPrice(offerings []model.SubjectOffering) float64 {
	m := offerings[0].PricePerHour
	for _, o := range offerings[1:] {
		if o.PricePerHour < m {
			m = o.PricePerHour
		}
	}
	return m
}

// rank orders the filtered set by the requested key. Ties always break by
// distance ascending, then by id, so result order is deterministic.
func (s *searchService) rank(q *validator.Query, results []*Result) {
	less := func(a, b *Result) bool {
		switch q.Sort {
		case "price_asc":
			pa, pb := minPrice(a.MatchedOfferings), minPrice(b.MatchedOfferings)
			if pa != pb {
				return pa < pb
			}
		case "price_desc":
			pa, pb := minPrice(a.MatchedOfferings), minPrice(b.MatchedOfferings)
			if pa != pb {
				return pa > pb
			}
		case "distance":
			if a.DistanceKm != b.DistanceKm {
				return a.DistanceKm < b.DistanceKm
			}
		case "experience":
			if a.Tutor.ExperienceYears != b.Tutor.ExperienceYears {
				return a.Tutor.ExperienceYears > b.Tutor.ExperienceYears
			}
		default: // rating
			if a.Tutor.RatingAvg != b.Tutor.RatingAvg {
				return a.Tutor.RatingAvg > b.Tutor.RatingAvg
			}
		}

		if a.DistanceKm != b.DistanceKm {
			return a.DistanceKm < b.DistanceKm
		}
		return a.Tutor.ID < b.Tutor.ID
	}

	sort.SliceStable(results, func(i, j int) bool { return less(results[i], results[j]) })
}

// paginate slices the ranked set. Pagination happens strictly after filter
// and sort; a page past the end is empty, not an error.
func (s *searchService) paginate(q *validator.Query, results []*Result) []*Result {
	start := (q.Page - 1) * q.Limit
	if start >= len(results) {
		return []*Result{}
	}
	end := start + q.Limit
	if end > len(results) {
		end = len(results)
	}
	return results[start:end]
}
