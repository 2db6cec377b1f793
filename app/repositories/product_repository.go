package repositories

import (
	"context"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"gorm.io/gorm"
)

type ProductFilter struct {
	PublishedOnly bool
	Category      string
	Search        string
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

func variantOrder(db *gorm.DB) *gorm.DB { return db.Order("id asc") }

// List returns products without their variants.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	q := r.q(ctx).Model(&models.Product{})
	if f.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Search != "" {
		q = q.Where("name LIKE ?", "%"+f.Search+"%")
	}

	var products []models.Product
	p, err := q.Order("name asc").Paginate(page, limit, &products)
	return products, p, apperr.FromStore("product", err)
}

// Find loads a product with its variants in creation order.
func (r *ProductRepository) Find(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.q(ctx).Preload("Variants", variantOrder).Where("id = ?", id).First(&product)
	if err != nil {
		return nil, apperr.FromStore("product", err)
	}
	return &product, nil
}

// FindBySlug ignores the published flag; webhooks may reference products
// that were unpublished after checkout.
func (r *ProductRepository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.q(ctx).Where("slug = ?", slug).First(&product); err != nil {
		return nil, apperr.FromStore("product", err)
	}
	return &product, nil
}

func (r *ProductRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.q(ctx).Preload("Variants", variantOrder).
		Where("slug = ? AND published = ?", slug, true).First(&product)
	if err != nil {
		return nil, apperr.FromStore("product", err)
	}
	return &product, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return apperr.FromStore("product", r.q(ctx).Omit("Variants").Create(product))
}

// Update saves the product's own columns. Variants are managed separately.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	return apperr.FromStore("product", r.q(ctx).Omit("Variants").Save(product))
}

// Delete removes the product and, through the cascade, its variants.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	return r.q(ctx).Transaction(func(tx *orm.Query) error {
		if _, err := tx.Delete(&models.ProductVariant{}, "product_id = ?", id); err != nil {
			return apperr.FromStore("variant", err)
		}
		return deleteByID(tx, &models.Product{}, id, "product")
	})
}

// FindVariant returns the variant only if it belongs to productID.
func (r *ProductRepository) FindVariant(ctx context.Context, productID, variantID uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	err := r.q(ctx).Where("id = ? AND product_id = ?", variantID, productID).First(&v)
	if err != nil {
		return nil, apperr.FromStore("variant", err)
	}
	return &v, nil
}

func (r *ProductRepository) FindVariantByID(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.q(ctx).Where("id = ?", id).First(&v); err != nil {
		return nil, apperr.FromStore("variant", err)
	}
	return &v, nil
}

// variantBatchSize keeps one INSERT well under SQLite's 32766 bind variables.
const variantBatchSize = 200

// CreateVariants inserts the batch in one transaction. A SKU that already
// exists on the product rolls back the whole batch with a conflict.
func (r *ProductRepository) CreateVariants(ctx context.Context, productID uint, variants []models.ProductVariant) error {
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
	}
	return r.q(ctx).Transaction(func(tx *orm.Query) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n); err != nil {
			return apperr.FromStore("product", err)
		}
		if n == 0 {
			return apperr.NotFound("product")
		}
		if err := tx.CreateInBatches(&variants, variantBatchSize); err != nil {
			return apperr.FromStore("variant", err)
		}
		return nil
	})
}

func (r *ProductRepository) UpdateVariant(ctx context.Context, v *models.ProductVariant) error {
	return apperr.FromStore("variant", r.q(ctx).Save(v))
}

func (r *ProductRepository) DeleteVariant(ctx context.Context, id uint) error {
	return deleteByID(r.q(ctx), &models.ProductVariant{}, id, "variant")
}

// Categories lists the distinct categories of published products.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := r.q(ctx).Gorm().Model(&models.Product{}).
		Where("published = ? AND category <> ''", true).
		Distinct().Order("category asc").Pluck("category", &out).Error
	return out, apperr.FromStore("product", err)
}
