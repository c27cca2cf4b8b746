package district

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context) ([]District, error)
	GetByName(ctx context.Context, name string) (*District, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]District, error) {
	var list []District
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *repository) GetByName(ctx context.Context, name string) (*District, error) {
	var d District
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}
