// FILE: internal/service/enforcement_service.go
package service

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/emiflair/wazhop/internal/apperrors"
	"github.com/emiflair/wazhop/internal/dto"
	"github.com/emiflair/wazhop/internal/entity"
	"github.com/emiflair/wazhop/internal/pkg/logger"
	"github.com/emiflair/wazhop/internal/repository/specification"
	"github.com/emiflair/wazhop/internal/repository/unitofwork"
	"github.com/emiflair/wazhop/pkg/media"
)

type IEnforcementService interface {
	// EnforceFreePlan brings an account's shops into free-plan compliance.
	// Non-destructive mode hides; destructive mode deletes. Both modes are
	// idempotent and tolerate media-store failures.
	EnforceFreePlan(ctx context.Context, accountId uuid.UUID, destructive bool) (*dto.EnforcementStatsResponse, error)
}

type enforcementService struct {
	uowFactory      unitofwork.RepositoryFactory
	mediaStore      media.Store
	log             logger.ILogger
	freeMaxProducts int
}

func NewEnforcementService(
	uowFactory unitofwork.RepositoryFactory,
	mediaStore media.Store,
	log logger.ILogger,
	freeMaxProducts int,
) IEnforcementService {
	return &enforcementService{
		uowFactory:      uowFactory,
		mediaStore:      mediaStore,
		log:             log,
		freeMaxProducts: freeMaxProducts,
	}
}

func (s *enforcementService) EnforceFreePlan(ctx context.Context, accountId uuid.UUID, destructive bool) (*dto.EnforcementStatsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	account, err := uow.AccountRepository().FindOne(ctx, specification.ByID{ID: accountId})
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("account %s not found", accountId)
	}

	shops, err := uow.ShopRepository().FindAllShops(ctx,
		specification.ShopOwnedBy{AccountID: accountId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	stats := &dto.EnforcementStatsResponse{Mode: "non_destructive"}
	if destructive {
		stats.Mode = "destructive"
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if destructive {
		if err := s.enforceDestructive(ctx, uow, account, shops, stats); err != nil {
			return nil, err
		}
	} else {
		if err := s.enforceNonDestructive(ctx, uow, shops, stats); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.log.Info("Enforcement", "free-plan enforcement completed", map[string]interface{}{
		"account_id":            accountId,
		"mode":                  stats.Mode,
		"shops_deactivated":     stats.ShopsDeactivated,
		"shops_deleted":         stats.ShopsDeleted,
		"products_deleted":      stats.ProductsDeleted,
		"images_deleted":        stats.ImagesDeleted,
		"media_delete_failures": stats.MediaDeleteFailures,
	})
	return stats, nil
}

// enforceNonDestructive keeps the oldest shop active and hides the rest.
// Nothing is deleted and the storage counter is untouched.
func (s *enforcementService) enforceNonDestructive(ctx context.Context, uow unitofwork.UnitOfWork, shops []*entity.Shop, stats *dto.EnforcementStatsResponse) error {
	for i, shop := range shops {
		if i == 0 {
			// The free tier always keeps its primary visible.
			if !shop.IsActive {
				shop.IsActive = true
				if err := uow.ShopRepository().UpdateShop(ctx, shop); err != nil {
					return err
				}
			}
			continue
		}
		if !shop.IsActive && shop.PlatformBranding {
			continue // already compliant
		}
		shop.IsActive = false
		shop.PlatformBranding = true
		if err := uow.ShopRepository().UpdateShop(ctx, shop); err != nil {
			return err
		}
		stats.ShopsDeactivated++
	}
	return nil
}

// enforceDestructive deletes every non-primary shop with its products and
// media, trims the primary to the newest free-tier allowance, strips all
// media even from kept products, and resets storage used to exactly zero.
func (s *enforcementService) enforceDestructive(ctx context.Context, uow unitofwork.UnitOfWork, account *entity.Account, shops []*entity.Shop, stats *dto.EnforcementStatsResponse) error {
	for i, shop := range shops {
		if i == 0 {
			if err := s.trimPrimaryShop(ctx, uow, shop, stats); err != nil {
				return err
			}
			continue
		}
		if err := s.deleteShopTree(ctx, uow, shop, stats); err != nil {
			return err
		}
	}

	// Reset wholesale rather than decrementing per item, so a skipped media
	// delete cannot leave the counter drifting.
	account.StorageUsedBytes = 0
	if err := uow.AccountRepository().Update(ctx, account); err != nil {
		return err
	}
	return nil
}

func (s *enforcementService) trimPrimaryShop(ctx context.Context, uow unitofwork.UnitOfWork, shop *entity.Shop, stats *dto.EnforcementStatsResponse) error {
	products, err := uow.ShopRepository().FindAllProducts(ctx, specification.ByShopID{ShopID: shop.Id})
	if err != nil {
		return err
	}

	// Newest first; the head of the list survives.
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})

	for i, product := range products {
		keep := i < s.freeMaxProducts
		// Free tier has no storage allowance: media goes even on kept products.
		if err := s.deleteProductImages(ctx, uow, product.Id, stats); err != nil {
			return err
		}
		if keep {
			continue
		}
		if err := uow.ShopRepository().DeleteProduct(ctx, product.Id); err != nil {
			return err
		}
		stats.ProductsDeleted++
	}

	if !shop.IsActive {
		shop.IsActive = true
		if err := uow.ShopRepository().UpdateShop(ctx, shop); err != nil {
			return err
		}
	}
	return nil
}

func (s *enforcementService) deleteShopTree(ctx context.Context, uow unitofwork.UnitOfWork, shop *entity.Shop, stats *dto.EnforcementStatsResponse) error {
	products, err := uow.ShopRepository().FindAllProducts(ctx, specification.ByShopID{ShopID: shop.Id})
	if err != nil {
		return err
	}
	for _, product := range products {
		if err := s.deleteProductImages(ctx, uow, product.Id, stats); err != nil {
			return err
		}
		if err := uow.ShopRepository().DeleteProduct(ctx, product.Id); err != nil {
			return err
		}
		stats.ProductsDeleted++
	}

	if err := uow.ShopRepository().DeleteShop(ctx, shop.Id); err != nil {
		return err
	}
	stats.ShopsDeleted++
	return nil
}

func (s *enforcementService) deleteProductImages(ctx context.Context, uow unitofwork.UnitOfWork, productId uuid.UUID, stats *dto.EnforcementStatsResponse) error {
	images, err := uow.ShopRepository().FindAllImages(ctx, specification.ByProductID{ProductID: productId})
	if err != nil {
		return err
	}
	for _, img := range images {
		if err := s.mediaStore.Delete(ctx, img.StorageKey); err != nil {
			// External store failure is non-fatal: log, count, move on.
			s.log.Warn("Enforcement", "media delete failed, skipping", map[string]interface{}{
				"product_id":  productId,
				"storage_key": img.StorageKey,
				"error":       err.Error(),
			})
			stats.MediaDeleteFailures++
		}
		if err := uow.ShopRepository().DeleteImage(ctx, img.Id); err != nil {
			return err
		}
		stats.ImagesDeleted++
		stats.StorageReclaimed += img.SizeBytes
	}
	return nil
}
