package domain

import (
	"context"

	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, person *Person) error
	Save(ctx context.Context, db *gorm.DB, person *Person) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Person, error)
	FindByPhoneNumber(ctx context.Context, db *gorm.DB, phoneNumber string) (*Person, error)
	List(ctx context.Context, db *gorm.DB, page pagination.Request) ([]*Person, int64, error)
	ListByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, page pagination.Request) ([]*Person, int64, error)
}
