package domain

import (
	"context"

	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, organization *Organization) error
	Save(ctx context.Context, db *gorm.DB, organization *Organization) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Organization, error)
	FindByName(ctx context.Context, db *gorm.DB, name string) (*Organization, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Request) ([]*Organization, int64, error)
}
