package repository

import (
	"errors"

	"secondhand_market/internal/item/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemRepo definition get item info
type ItemRepo interface {
	AutoMigrate() error
	Create(item *domain.Item) error
	GetByID(id int64) (*domain.Item, error)
	Update(item *domain.Item) error
	Delete(id int64) error
	Search(keyword string, categoryID *int64) ([]domain.Item, error)
	FindBySeller(sellerID int64) ([]domain.Item, error)
	IncrementViewCount(id int64) error

	Like(like *domain.ItemLike) error
	Unlike(itemID, userID int64) error
	CountLikes(itemID int64) (int64, error)
	FindLikedBy(userID int64) ([]domain.Item, error)

	AddImage(image *domain.ItemImage) error
	FindImages(itemID int64) ([]domain.ItemImage, error)
	DeleteImages(itemID int64) error
	// 其他 CRUD ...
}

type itemRepo struct {
	db *gorm.DB
}

// NewItemRepo create ItemRepo
func NewItemRepo(db *gorm.DB) ItemRepo {
	return &itemRepo{db: db}
}

func (r *itemRepo) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Item{},
		&domain.Category{},
		&domain.ItemLike{},
		&domain.ItemImage{},
	)
}

func (r *itemRepo) Create(item *domain.Item) error {
	return r.db.Create(item).Error
}

func (r *itemRepo) GetByID(id int64) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) Update(item *domain.Item) error {
	return r.db.Save(item).Error
}

func (r *itemRepo) Delete(id int64) error {
	return r.db.Delete(&domain.Item{}, id).Error
}

// Search 利用 PostgreSQL 的 ILIKE 實作模糊搜尋（標題或描述包含 keyword）
func (r *itemRepo) Search(keyword string, categoryID *int64) ([]domain.Item, error) {
	var items []domain.Item
	q := r.db.Order("created_at DESC")
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) FindBySeller(sellerID int64) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.db.Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) IncrementViewCount(id int64) error {
	return r.db.Model(&domain.Item{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

// Like liking twice is a no-op
func (r *itemRepo) Like(like *domain.ItemLike) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

func (r *itemRepo) Unlike(itemID, userID int64) error {
	return r.db.Where("item_id = ? AND user_id = ?", itemID, userID).
		Delete(&domain.ItemLike{}).Error
}

func (r *itemRepo) CountLikes(itemID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ItemLike{}).Where("item_id = ?", itemID).Count(&count).Error
	return count, err
}

func (r *itemRepo) FindLikedBy(userID int64) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.
		Joins("JOIN item_likes ON item_likes.item_id = items.id").
		Where("item_likes.user_id = ?", userID).
		Order("item_likes.created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *itemRepo) AddImage(image *domain.ItemImage) error {
	return r.db.Create(image).Error
}

func (r *itemRepo) FindImages(itemID int64) ([]domain.ItemImage, error) {
	var images []domain.ItemImage
	if err := r.db.Where("item_id = ?", itemID).Order("position ASC").Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

func (r *itemRepo) DeleteImages(itemID int64) error {
	return r.db.Where("item_id = ?", itemID).Delete(&domain.ItemImage{}).Error
}
