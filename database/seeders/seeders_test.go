package seeders

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedersAreIdempotent(t *testing.T) {
	config.Set("ADMIN_EMAIL", "owner@example.com")
	config.Set("ADMIN_PASSWORD", "s3cret-pass")

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.ProductVariant{}))

	var out bytes.Buffer
	for i := 0; i < 2; i++ {
		require.NoError(t, RunAll(context.Background(), db, &out))
	}
	assert.Contains(t, out.String(), "Seeding: demo_catalog")

	var users, products, variants int64
	db.Model(&models.User{}).Where("email = ? AND role = ?", "owner@example.com", models.RoleAdmin).Count(&users)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.ProductVariant{}).Count(&variants)
	assert.EqualValues(t, 1, users)
	assert.EqualValues(t, 1, products)
	assert.EqualValues(t, 8, variants)

	var sku string
	require.NoError(t, db.Model(&models.ProductVariant{}).Order("id").Limit(1).Pluck("sku", &sku).Error)
	assert.Equal(t, "MRSB-5-2-CL", sku)
}
