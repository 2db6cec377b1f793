package seeders

import (
	"context"
	"errors"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdmin)
	Register("demo_catalog", SeedCatalog)
}

// SeedAdmin creates ADMIN_EMAIL with ADMIN_PASSWORD unless it exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	email := config.Get("ADMIN_EMAIL", "admin@liftstore.local")
	password := config.Get("ADMIN_PASSWORD", "")
	if password == "" {
		if config.IsProduction() {
			return errors.New("ADMIN_PASSWORD must be set in production")
		}
		password = "liftstore-admin"
	}

	repo := repositories.NewUserRepository(db)
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	_, err := services.NewUserService(repo).Create(ctx, services.UserInput{
		Name: "Administrator", Email: email, Password: password, Role: models.RoleAdmin,
	})
	if err == nil {
		logger.Info("seed: admin created", "email", email)
	}
	return err
}

const demoSlug = "mid-range-spreader-bars"

// SeedCatalog adds one published product with generated variants.
func SeedCatalog(ctx context.Context, db *gorm.DB) error {
	products := repositories.NewProductRepository(db)
	if _, err := products.FindBySlug(ctx, demoSlug); err == nil {
		return nil
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	catalog := services.NewCatalogService(products, nil, 0)
	p, err := catalog.Create(ctx, services.ProductInput{
		Name:        "Mid-Range Spreader Bars",
		Slug:        demoSlug,
		Category:    "spreader-bars",
		Description: "Adjustable spreader bars for two-point lifts.",
		BasePrice:   decimal.RequireFromString("249.00"),
		Published:   true,
	})
	if err != nil {
		return err
	}
	_, err = catalog.GenerateVariants(ctx, p.ID, services.GenerateInput{
		Capacities:       "5, 10",
		CapacityUnit:     "t",
		Lengths:          "2, 3",
		LengthUnit:       "m",
		ConnectionStyles: "clearance lug, quick release",
	}, false)
	return err
}
