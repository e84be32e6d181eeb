package service

import (
	"sort"
	"strings"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// Scoring weights. Tag overlap dominates, engagement second, the viewer's
// own history contributes the rest.
const (
	weightTags       = 40.0
	weightEngagement = 30.0
	weightViewed     = 20.0
	weightPurchased  = 10.0

	likeFactor     = 1.0
	bookmarkFactor = 1.5
	viewFactor     = 0.5
)

// Recommendation is one scored candidate.
type Recommendation struct {
	Product models.Product `json:"product"`
	Score   float64        `json:"score"`
}

// RecommendService ranks related products for a product page.
type RecommendService struct {
	productRepo    repository.ProductRepository
	engagementRepo repository.EngagementRepository
	viewRepo       repository.ViewRepository
	orderRepo      repository.OrderRepository
	limit          int
}

// NewRecommendService creates a recommendation service.
func NewRecommendService(
	productRepo repository.ProductRepository,
	engagementRepo repository.EngagementRepository,
	viewRepo repository.ViewRepository,
	orderRepo repository.OrderRepository,
	limit int,
) *RecommendService {
	if limit <= 0 {
		limit = constants.RecommendLimitDefault
	}
	return &RecommendService{
		productRepo:    productRepo,
		engagementRepo: engagementRepo,
		viewRepo:       viewRepo,
		orderRepo:      orderRepo,
		limit:          limit,
	}
}

// Recommend scores every other active product against the source and
// returns the top entries. viewerID 0 zeroes the history terms. The result
// is deterministic: ties break on ascending product id.
func (s *RecommendService) Recommend(source *models.Product, viewerID uint) ([]Recommendation, error) {
	if source == nil {
		return nil, ErrProductNotFound
	}
	candidates, err := s.productRepo.ListActiveExcluding(source.ID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []Recommendation{}, nil
	}

	candidateIDs := make([]uint, 0, len(candidates))
	for _, candidate := range candidates {
		candidateIDs = append(candidateIDs, candidate.ID)
	}

	likeCounts, err := s.engagementRepo.CountsByProductIDs(constants.EngagementKindLike, candidateIDs)
	if err != nil {
		return nil, err
	}
	bookmarkCounts, err := s.engagementRepo.CountsByProductIDs(constants.EngagementKindBookmark, candidateIDs)
	if err != nil {
		return nil, err
	}

	viewedSet := map[uint]struct{}{}
	purchasedSet := map[uint]struct{}{}
	if viewerID != 0 {
		viewedIDs, err := s.viewRepo.ListProductIDsByUser(viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range viewedIDs {
			if id != source.ID {
				viewedSet[id] = struct{}{}
			}
		}
		purchasedIDs, err := s.orderRepo.ListCompletedProductIDsByUser(viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range purchasedIDs {
			purchasedSet[id] = struct{}{}
		}
	}

	// Normalization ceilings are the per-metric maxima over this candidate
	// set, floored at 1 so empty metrics divide cleanly.
	var maxLikes, maxBookmarks, maxViews int64 = 1, 1, 1
	for _, candidate := range candidates {
		if c := likeCounts[candidate.ID]; c > maxLikes {
			maxLikes = c
		}
		if c := bookmarkCounts[candidate.ID]; c > maxBookmarks {
			maxBookmarks = c
		}
		if c := int64(candidate.ViewCount); c > maxViews {
			maxViews = c
		}
	}

	sourceTags := tagSet(source.Tags)
	scored := make([]Recommendation, 0, len(candidates))
	for _, candidate := range candidates {
		score := weightTags * jaccard(sourceTags, tagSet(candidate.Tags))

		engagement := (likeFactor*normalize(likeCounts[candidate.ID], maxLikes) +
			bookmarkFactor*normalize(bookmarkCounts[candidate.ID], maxBookmarks) +
			viewFactor*normalize(int64(candidate.ViewCount), maxViews)) / 3.0
		score += weightEngagement * engagement

		if _, ok := viewedSet[candidate.ID]; ok {
			score += weightViewed
		}
		if _, ok := purchasedSet[candidate.ID]; ok {
			score += weightPurchased
		}

		scored = append(scored, Recommendation{Product: candidate, Score: score})
	}

	// Candidates arrive id ascending, so a stable sort on score alone
	// yields the id tie-break.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > s.limit {
		scored = scored[:s.limit]
	}
	return scored, nil
}

func tagSet(tags models.StringArray) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

// jaccard is |intersection| / |union|, 0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for tag := range a {
		if _, ok := b[tag]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// normalize maps a count into [0, 1] against the candidate-set maximum.
func normalize(value, max int64) float64 {
	if value <= 0 {
		return 0
	}
	if max < 1 {
		max = 1
	}
	ratio := float64(value) / float64(max)
	if ratio > 1 {
		return 1
	}
	return ratio
}
