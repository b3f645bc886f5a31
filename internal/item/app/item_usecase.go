package app

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"secondhand_market/internal/item/domain"
	"secondhand_market/internal/item/repository"
	"secondhand_market/pkg/apperr"
	"secondhand_market/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const presignExpiry = 15 * time.Minute

// ObjectStorage is the slice of blob storage the item usecases need.
// *database.MinIOClient satisfies it.
type ObjectStorage interface {
	PutObject(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	RemoveObject(ctx context.Context, objectName string) error
	PresignGetURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// ItemUseCase 這裡封裝了對外提供的應用服務
type ItemUseCase interface {
	CreateItem(ctx context.Context, item *domain.Item, images []domain.UploadImageReq) (*domain.Item, error)
	GetItem(ctx context.Context, itemID int64) (*domain.ItemDetail, error)
	UpdateItem(ctx context.Context, requesterID int64, item *domain.Item) error
	DeleteItem(ctx context.Context, requesterID, itemID int64) error
	SearchItems(ctx context.Context, keyword string, categoryID *int64) ([]domain.Item, error)
	GetSellerItems(ctx context.Context, sellerID int64) ([]domain.Item, error)

	LikeItem(ctx context.Context, itemID, userID int64) error
	UnlikeItem(ctx context.Context, itemID, userID int64) error
	GetLikedItems(ctx context.Context, userID int64) ([]domain.Item, error)
	GetLikeCount(ctx context.Context, itemID int64) (int64, error)

	GetCategories(ctx context.Context) ([]domain.Category, error)
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	// SellerOf feeds the chat room directory.
	SellerOf(ctx context.Context, itemID int64) (int64, error)
}

type itemUseCase struct {
	itemRepo     repository.ItemRepo
	categoryRepo repository.CategoryRepo
	storage      ObjectStorage
}

// NewItemUseCase 建立一個新的 ItemUseCase
func NewItemUseCase(
	itemRepo repository.ItemRepo,
	categoryRepo repository.CategoryRepo,
	storage ObjectStorage,
) ItemUseCase {
	return &itemUseCase{
		itemRepo:     itemRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
	}
}

// CreateItem stores the listing and uploads its gallery. A failed
// upload does not lose the listing, the image is just skipped.
func (uc *itemUseCase) CreateItem(ctx context.Context, item *domain.Item, images []domain.UploadImageReq) (*domain.Item, error) {
	if item.Title == "" || item.Price < 0 {
		return nil, fmt.Errorf("%w: title and non-negative price required", apperr.ErrInvalidParams)
	}
	if item.Status == "" {
		item.Status = string(domain.ItemSelling)
	}

	if err := uc.itemRepo.Create(item); err != nil {
		return nil, apperr.System(err)
	}

	for i, img := range images {
		objectKey := fmt.Sprintf("items/%d/%s%s", item.ID, uuid.New().String(), path.Ext(img.FileName))
		if err := uc.storage.PutObject(ctx, objectKey, img.File, img.Size, img.ContentType); err != nil {
			logger.Log.Errorf("image upload error:", err, zap.Int64("itemID", item.ID))
			continue
		}
		if err := uc.itemRepo.AddImage(&domain.ItemImage{
			ItemID:    item.ID,
			ObjectKey: objectKey,
			Position:  i,
		}); err != nil {
			logger.Log.Errorf("image record error:", err, zap.Int64("itemID", item.ID))
		}
	}
	return item, nil
}

// GetItem bumps the view count and resolves presigned gallery urls.
func (uc *itemUseCase) GetItem(ctx context.Context, itemID int64) (*domain.ItemDetail, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, apperr.System(err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %d", apperr.ErrItemNotFound, itemID)
	}

	if err := uc.itemRepo.IncrementViewCount(itemID); err != nil {
		logger.Log.Errorf("view count error:", err, zap.Int64("itemID", itemID))
	}

	images, err := uc.itemRepo.FindImages(itemID)
	if err != nil {
		return nil, apperr.System(err)
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := uc.storage.PresignGetURL(ctx, img.ObjectKey, presignExpiry)
		if err != nil {
			logger.Log.Errorf("presign error:", err, zap.String("objectKey", img.ObjectKey))
			continue
		}
		urls = append(urls, url)
	}

	likes, err := uc.itemRepo.CountLikes(itemID)
	if err != nil {
		return nil, apperr.System(err)
	}

	return &domain.ItemDetail{
		Item:      *item,
		ImageURLs: urls,
		LikeCount: likes,
	}, nil
}

// UpdateItem only the seller may edit the listing.
func (uc *itemUseCase) UpdateItem(ctx context.Context, requesterID int64, item *domain.Item) error {
	existing, err := uc.itemRepo.GetByID(item.ID)
	if err != nil {
		return apperr.System(err)
	}
	if existing == nil {
		return fmt.Errorf("%w: %d", apperr.ErrItemNotFound, item.ID)
	}
	if existing.SellerID != requesterID {
		return fmt.Errorf("%w: user %d is not the seller", apperr.ErrForbidden, requesterID)
	}

	item.SellerID = existing.SellerID
	item.ViewCount = existing.ViewCount
	item.CreatedAt = existing.CreatedAt
	if err := uc.itemRepo.Update(item); err != nil {
		return apperr.System(err)
	}
	return nil
}

// DeleteItem only the seller may remove the listing. The stored
// objects go with it.
func (uc *itemUseCase) DeleteItem(ctx context.Context, requesterID, itemID int64) error {
	existing, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return apperr.System(err)
	}
	if existing == nil {
		return fmt.Errorf("%w: %d", apperr.ErrItemNotFound, itemID)
	}
	if existing.SellerID != requesterID {
		return fmt.Errorf("%w: user %d is not the seller", apperr.ErrForbidden, requesterID)
	}

	images, err := uc.itemRepo.FindImages(itemID)
	if err != nil {
		return apperr.System(err)
	}
	for _, img := range images {
		if err := uc.storage.RemoveObject(ctx, img.ObjectKey); err != nil {
			logger.Log.Errorf("image remove error:", err, zap.String("objectKey", img.ObjectKey))
		}
	}
	if err := uc.itemRepo.DeleteImages(itemID); err != nil {
		return apperr.System(err)
	}
	if err := uc.itemRepo.Delete(itemID); err != nil {
		return apperr.System(err)
	}
	return nil
}

func (uc *itemUseCase) SearchItems(ctx context.Context, keyword string, categoryID *int64) ([]domain.Item, error) {
	items, err := uc.itemRepo.Search(keyword, categoryID)
	if err != nil {
		return nil, apperr.System(err)
	}
	return items, nil
}

func (uc *itemUseCase) GetSellerItems(ctx context.Context, sellerID int64) ([]domain.Item, error) {
	items, err := uc.itemRepo.FindBySeller(sellerID)
	if err != nil {
		return nil, apperr.System(err)
	}
	return items, nil
}

func (uc *itemUseCase) LikeItem(ctx context.Context, itemID, userID int64) error {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return apperr.System(err)
	}
	if item == nil {
		return fmt.Errorf("%w: %d", apperr.ErrItemNotFound, itemID)
	}
	return uc.itemRepo.Like(&domain.ItemLike{ItemID: itemID, UserID: userID, CreatedAt: time.Now()})
}

func (uc *itemUseCase) UnlikeItem(ctx context.Context, itemID, userID int64) error {
	return uc.itemRepo.Unlike(itemID, userID)
}

func (uc *itemUseCase) GetLikedItems(ctx context.Context, userID int64) ([]domain.Item, error) {
	items, err := uc.itemRepo.FindLikedBy(userID)
	if err != nil {
		return nil, apperr.System(err)
	}
	return items, nil
}

func (uc *itemUseCase) GetLikeCount(ctx context.Context, itemID int64) (int64, error) {
	count, err := uc.itemRepo.CountLikes(itemID)
	if err != nil {
		return 0, apperr.System(err)
	}
	return count, nil
}

func (uc *itemUseCase) GetCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := uc.categoryRepo.GetAll()
	if err != nil {
		return nil, apperr.System(err)
	}
	return categories, nil
}

func (uc *itemUseCase) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", apperr.ErrInvalidParams)
	}
	category := &domain.Category{Name: name}
	if err := uc.categoryRepo.Create(category); err != nil {
		return nil, apperr.System(err)
	}
	return category, nil
}

func (uc *itemUseCase) UpdateCategory(ctx context.Context, categoryID int64, name string) (*domain.Category, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: category name required", apperr.ErrInvalidParams)
	}
	category, err := uc.categoryRepo.GetByID(categoryID)
	if err != nil {
		return nil, apperr.System(err)
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %d", apperr.ErrItemNotFound, categoryID)
	}
	category.Name = name
	if err := uc.categoryRepo.Update(category); err != nil {
		return nil, apperr.System(err)
	}
	return category, nil
}

func (uc *itemUseCase) DeleteCategory(ctx context.Context, categoryID int64) error {
	category, err := uc.categoryRepo.GetByID(categoryID)
	if err != nil {
		return apperr.System(err)
	}
	if category == nil {
		return fmt.Errorf("%w: category %d", apperr.ErrItemNotFound, categoryID)
	}
	return uc.categoryRepo.Delete(categoryID)
}

func (uc *itemUseCase) SellerOf(ctx context.Context, itemID int64) (int64, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return 0, apperr.System(err)
	}
	if item == nil {
		return 0, fmt.Errorf("%w: %d", apperr.ErrItemNotFound, itemID)
	}
	return item.SellerID, nil
}
