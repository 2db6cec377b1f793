package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "svc.db")+"?_busy_timeout=5000&_txlock=immediate")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Post{}, &models.ServiceOffering{},
		&models.Product{}, &models.ProductVariant{},
		&models.Order{}, &models.OrderItem{},
	))
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func createProduct(t *testing.T, db *gorm.DB, slug string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:              "Mid Range Spreader Bar",
		Slug:              slug,
		BasePrice:         decimal.RequireFromString("100.00"),
		ProviderVariantID: "555",
		Published:         true,
	}
	require.NoError(t, repositories.NewProductRepository(db).Create(context.Background(), p))
	return p
}
