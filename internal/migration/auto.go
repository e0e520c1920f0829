package migration

import (
	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"gorm.io/gorm"
)

func autoMigrate(db *gorm.DB, dir string) error {
	switch dir {
	case "sql/person":
		return db.AutoMigrate(&persondomain.Person{})
	case "sql/organization":
		return db.AutoMigrate(&orgdomain.Organization{})
	default:
		return nil
	}
}
