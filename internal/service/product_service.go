package service

import (
	"time"

	"github.com/atelier-market/atelier-api/internal/constants"
	"github.com/atelier-market/atelier-api/internal/logger"
	"github.com/atelier-market/atelier-api/internal/models"
	"github.com/atelier-market/atelier-api/internal/repository"
)

// ProductPage is everything a product detail request returns.
type ProductPage struct {
	Product         models.Product    `json:"product"`
	Likes           *EngagementResult `json:"likes"`
	Bookmarks       *EngagementResult `json:"bookmarks"`
	Recommendations []Recommendation  `json:"recommendations"`
}

// ProductService assembles product pages and records views.
type ProductService struct {
	productRepo    repository.ProductRepository
	viewRepo       repository.ViewRepository
	engagementSvc  *EngagementService
	recommendSvc   *RecommendService
	viewDedupation time.Duration
}

// NewProductService creates a product service.
func NewProductService(
	productRepo repository.ProductRepository,
	viewRepo repository.ViewRepository,
	engagementSvc *EngagementService,
	recommendSvc *RecommendService,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		viewRepo:       viewRepo,
		engagementSvc:  engagementSvc,
		recommendSvc:   recommendSvc,
		viewDedupation: constants.ViewDedupWindowMinutes * time.Minute,
	}
}

// GetPage loads a product with its engagement state and recommendations,
// recording the view along the way. viewerID 0 means anonymous.
func (s *ProductService) GetPage(productID, viewerID uint, ip string) (*ProductPage, error) {
	product, err := s.productRepo.GetActiveByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	s.RecordView(product.ID, viewerID, ip)

	likes, err := s.engagementSvc.Status(constants.EngagementKindLike, product.ID, viewerID)
	if err != nil {
		return nil, err
	}
	bookmarks, err := s.engagementSvc.Status(constants.EngagementKindBookmark, product.ID, viewerID)
	if err != nil {
		return nil, err
	}
	recommendations, err := s.recommendSvc.Recommend(product, viewerID)
	if err != nil {
		return nil, err
	}

	return &ProductPage{
		Product:         *product,
		Likes:           likes,
		Bookmarks:       bookmarks,
		Recommendations: recommendations,
	}, nil
}

// RecordView bumps the view counter and writes a view row unless the same
// viewer (user id, or IP when anonymous) hit this product inside the dedup
// window. The counter increments unconditionally; only the history row is
// deduped. Failures are logged, not surfaced.
func (s *ProductService) RecordView(productID, viewerID uint, ip string) {
	if err := s.productRepo.IncrementViewCount(productID); err != nil {
		logger.Errorw("view_count_increment_failed", "product_id", productID, "error", err)
	}

	recent, err := s.viewRepo.RecentExists(viewerID, ip, productID, s.viewDedupation)
	if err != nil {
		logger.Errorw("view_dedup_check_failed", "product_id", productID, "error", err)
		return
	}
	if recent {
		return
	}
	if err := s.viewRepo.Create(&models.ProductView{
		UserID:    viewerID,
		ProductID: productID,
		IP:        ip,
	}); err != nil {
		logger.Errorw("view_record_failed", "product_id", productID, "error", err)
	}
}
