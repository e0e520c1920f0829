package repository

import (
	"context"
	"errors"

	"github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, person *domain.Person) error {
	return db.WithContext(ctx).Create(person).Error
}

func (r *repo) Save(ctx context.Context, db *gorm.DB, person *domain.Person) error {
	// Select("*") so a cleared organization id is written back as NULL.
	return db.WithContext(ctx).Model(person).Select("*").Omit("created_at").Updates(person).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).Delete(&domain.Person{}, "id = ?", id).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Person, error) {
	var person domain.Person
	err := db.WithContext(ctx).First(&person, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *repo) FindByPhoneNumber(ctx context.Context, db *gorm.DB, phoneNumber string) (*domain.Person, error) {
	var person domain.Person
	err := db.WithContext(ctx).First(&person, "phone_number = ?", phoneNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &person, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, page pagination.Request) ([]*domain.Person, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.Person{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var persons []*domain.Person
	err := db.WithContext(ctx).
		Model(&domain.Person{}).
		Order("id asc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&persons).Error
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}

func (r *repo) ListByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, page pagination.Request) ([]*domain.Person, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&domain.Person{}).Where("id IN ?", ids).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var persons []*domain.Person
	err := db.WithContext(ctx).
		Model(&domain.Person{}).
		Where("id IN ?", ids).
		Order("id asc").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&persons).Error
	if err != nil {
		return nil, 0, err
	}
	return persons, total, nil
}
