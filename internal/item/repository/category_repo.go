package repository

import (
	"errors"

	"secondhand_market/internal/item/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepo definition get category info
type CategoryRepo interface {
	Create(category *domain.Category) error
	GetAll() ([]domain.Category, error)
	GetByID(id int64) (*domain.Category, error)
	Update(category *domain.Category) error
	Delete(id int64) error
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepo create CategoryRepo
func NewCategoryRepo(db *gorm.DB) CategoryRepo {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(category *domain.Category) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(category).Error
}

func (r *categoryRepo) GetAll() ([]domain.Category, error) {
	var categories []domain.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepo) GetByID(id int64) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Update(category *domain.Category) error {
	return r.db.Save(category).Error
}

func (r *categoryRepo) Delete(id int64) error {
	return r.db.Delete(&domain.Category{}, id).Error
}
