package repository

import (
	"context"
	"errors"

	"github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, organization *domain.Organization) error {
	return db.WithContext(ctx).Create(organization).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, organization *domain.Organization) error {
	return db.WithContext(ctx).Model(organization).Select("*").Omit("created_at").Updates(organization).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Organization{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Organization, error) {
	var organization domain.Organization
	err := db.WithContext(ctx).First(&organization, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &organization, nil
}

func (r *repo) FindByName(ctx context.Context, db *gorm.DB, name string) (*domain.Organization, error) {
	var organization domain.Organization
	err := db.WithContext(ctx).First(&organization, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &organization, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Request) ([]*domain.Organization, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.Organization{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var organizations []*domain.Organization
	err := db.WithContext(ctx).
		Model(&domain.Organization{}).
		Order("id asc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&organizations).Error
	if err != nil {
		return nil, 0, err
	}
	return organizations, total, nil
}
