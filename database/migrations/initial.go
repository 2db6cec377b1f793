package migrations

import (
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/migration"
	"github.com/shashiranjanraj/liftstore/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_users_table", tables{&models.User{}})
	migration.Register("20260101000001_create_content_tables", tables{&models.Post{}, &models.ServiceOffering{}})
	migration.Register("20260101000002_create_catalog_tables", tables{&models.Product{}, &models.ProductVariant{}})
	migration.Register("20260101000003_create_orders_tables", tables{&models.Order{}, &models.OrderItem{}})
	migration.Register("20260101000004_create_failed_jobs_table", tables{&queue.FailedJobRecord{}})
}

// tables creates its models in order and drops them in reverse, so child
// tables go before their parents.
type tables []any

func (t tables) Up(db *gorm.DB) error {
	return db.AutoMigrate(t...)
}

func (t tables) Down(db *gorm.DB) error {
	for i := len(t) - 1; i >= 0; i-- {
		if err := db.Migrator().DropTable(t[i]); err != nil {
			return err
		}
	}
	return nil
}
