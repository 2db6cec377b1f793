package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/config"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/cache"
	"github.com/shashiranjanraj/liftstore/pkg/logger"
	"github.com/shashiranjanraj/liftstore/pkg/metrics"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"github.com/shashiranjanraj/liftstore/pkg/storage"
	"github.com/shopspring/decimal"
)

// catalogCachePrefix namespaces every cached public catalog read so a write
// can drop them all.
const catalogCachePrefix = "catalog:"

type ProductInput struct {
	Name              string          `json:"name" validate:"required,min=2,max=255"`
	Slug              string          `json:"slug" validate:"required,slug,max=191"`
	Category          string          `json:"category" validate:"nullable,alpha_dash,max=100"`
	Description       string          `json:"description"`
	BasePrice         decimal.Decimal `json:"base_price" validate:"money"`
	ImageURL          string          `json:"image_url" validate:"nullable,url,max=500"`
	ProviderVariantID string          `json:"provider_variant_id" validate:"max=64"`
	Published         bool            `json:"published"`
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = in.Name
	p.Slug = in.Slug
	p.Category = in.Category
	p.Description = in.Description
	p.BasePrice = in.BasePrice
	p.ImageURL = in.ImageURL
	p.ProviderVariantID = in.ProviderVariantID
	p.Published = in.Published
}

// VariantPatch edits one variant. Nil fields are left alone.
type VariantPatch struct {
	Price *decimal.Decimal `json:"price" validate:"nullable,money"`
	Stock *int             `json:"stock" validate:"nullable,gte=0"`
}

// GenerateInput is the admin form for variant generation. BasePrice
// defaults to the product's base price.
type GenerateInput struct {
	Capacities       string           `json:"capacities" validate:"max=500"`
	CapacityUnit     string           `json:"capacity_unit" validate:"max=10"`
	Lengths          string           `json:"lengths" validate:"max=500"`
	LengthUnit       string           `json:"length_unit" validate:"max=10"`
	ConnectionStyles string           `json:"connection_styles" validate:"max=500"`
	BasePrice        *decimal.Decimal `json:"base_price" validate:"nullable,money"`
}

// ProductPage is one cached page of the public product list.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	Pagination orm.Pagination   `json:"pagination"`
}

// allowedImageTypes maps accepted upload content types to file extensions.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type CatalogService struct {
	products    *repositories.ProductRepository
	disk        storage.Disk
	cacheTTL    time.Duration
	maxVariants int
}

func NewCatalogService(products *repositories.ProductRepository, disk storage.Disk, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{products: products, disk: disk, cacheTTL: cacheTTL, maxVariants: config.VariantMaxPerRun()}
}

// ── Public reads ──────────────────────────────────────────────────────────────

func (s *CatalogService) PublishedProducts(ctx context.Context, category, search string, page, limit int) (ProductPage, error) {
	key := fmt.Sprintf("%sproducts:%s:%s:%d:%d", catalogCachePrefix, category, search, page, limit)
	var out ProductPage
	err := cache.Remember(ctx, key, s.cacheTTL, &out, func() error {
		items, p, err := s.products.List(ctx, repositories.ProductFilter{
			PublishedOnly: true, Category: category, Search: search,
		}, page, limit)
		out = ProductPage{Items: items, Pagination: p}
		return err
	})
	return out, err
}

func (s *CatalogService) PublishedProduct(ctx context.Context, slug string) (*models.Product, error) {
	var out models.Product
	err := cache.Remember(ctx, catalogCachePrefix+"product:"+slug, s.cacheTTL, &out, func() error {
		p, err := s.products.FindPublishedBySlug(ctx, slug)
		if err != nil {
			return err
		}
		out = *p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := cache.Remember(ctx, catalogCachePrefix+"categories", s.cacheTTL, &out, func() error {
		var err error
		out, err = s.products.Categories(ctx)
		return err
	})
	return out, err
}

// ── Admin ─────────────────────────────────────────────────────────────────────

func (s *CatalogService) List(ctx context.Context, search string, page, limit int) ([]models.Product, orm.Pagination, error) {
	return s.products.List(ctx, repositories.ProductFilter{Search: search}, page, limit)
}

func (s *CatalogService) Find(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.Find(ctx, id)
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	var p models.Product
	in.apply(&p)
	if err := s.products.Create(ctx, &p); err != nil {
		return nil, err
	}
	s.forget(ctx)
	return &p, nil
}

func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(p)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	s.forget(ctx)
	return p, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(ctx)
	return nil
}

// GenerateVariants runs the generator for the product. With preview it only
// returns what would be created; otherwise the whole batch is inserted or,
// on any SKU collision, nothing is.
func (s *CatalogService) GenerateVariants(ctx context.Context, productID uint, in GenerateInput, preview bool) ([]VariantSpec, error) {
	product, err := s.products.Find(ctx, productID)
	if err != nil {
		return nil, err
	}

	base := product.BasePrice
	if in.BasePrice != nil {
		base = *in.BasePrice
	}
	opts := VariantOptions{
		Capacities:       in.Capacities,
		CapacityUnit:     in.CapacityUnit,
		Lengths:          in.Lengths,
		LengthUnit:       in.LengthUnit,
		ConnectionStyles: in.ConnectionStyles,
		BasePrice:        base,
		ProductSlug:      product.Slug,
	}
	if n := CountVariants(opts); n > s.maxVariants {
		return nil, apperr.Invalid("options", fmt.Sprintf("would generate %d variants, at most %d are allowed per run", n, s.maxVariants))
	}
	specs := GenerateVariants(opts)
	if err := checkVariantColumns(specs); err != nil {
		return nil, err
	}
	if preview {
		return specs, nil
	}

	rows := make([]models.ProductVariant, len(specs))
	for i, sp := range specs {
		rows[i] = models.ProductVariant{
			SKU:                sp.SKU,
			Capacity:           sp.Capacity,
			Length:             sp.Length,
			EndConnectionStyle: sp.EndConnectionStyle,
			Price:              sp.Price,
			Stock:              sp.Stock,
		}
	}
	if err := s.products.CreateVariants(ctx, product.ID, rows); err != nil {
		return nil, err
	}

	metrics.VariantsGenerated.Add(float64(len(rows)))
	logger.WithCtx(ctx).Info("variants generated", "product_id", product.ID, "count", len(rows))
	s.forget(ctx)
	return specs, nil
}

// Column widths of models.ProductVariant.
const (
	maxSKULen       = 64
	maxDimensionLen = 50
	maxStyleLen     = 100
)

func checkVariantColumns(specs []VariantSpec) error {
	for _, sp := range specs {
		switch {
		case len(sp.SKU) > maxSKULen:
			return apperr.Invalid("sku", fmt.Sprintf("generated SKUs must be at most %d characters, shorten the option values", maxSKULen))
		case sp.Capacity != nil && len(*sp.Capacity) > maxDimensionLen:
			return apperr.Invalid("capacities", fmt.Sprintf("each capacity must be at most %d characters with its unit", maxDimensionLen))
		case sp.Length != nil && len(*sp.Length) > maxDimensionLen:
			return apperr.Invalid("lengths", fmt.Sprintf("each length must be at most %d characters with its unit", maxDimensionLen))
		case sp.EndConnectionStyle != nil && len(*sp.EndConnectionStyle) > maxStyleLen:
			return apperr.Invalid("connection_styles", fmt.Sprintf("each connection style must be at most %d characters", maxStyleLen))
		}
	}
	return nil
}

func (s *CatalogService) UpdateVariant(ctx context.Context, id uint, patch VariantPatch) (*models.ProductVariant, error) {
	v, err := s.products.FindVariantByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Price != nil {
		v.Price = *patch.Price
	}
	if patch.Stock != nil {
		v.Stock = *patch.Stock
	}
	if err := s.products.UpdateVariant(ctx, v); err != nil {
		return nil, err
	}
	s.forget(ctx)
	return v, nil
}

func (s *CatalogService) DeleteVariant(ctx context.Context, id uint) error {
	if err := s.products.DeleteVariant(ctx, id); err != nil {
		return err
	}
	s.forget(ctx)
	return nil
}

// UploadImage stores the image under a fresh object name and points the
// product at it. The previous object is removed on a best-effort basis.
func (s *CatalogService) UploadImage(ctx context.Context, productID uint, r io.Reader, contentType string) (*models.Product, error) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, apperr.Invalid("image", "The image must be a jpeg, png, webp or gif file.")
	}
	if s.disk == nil {
		return nil, apperr.New(apperr.KindInternal, "storage disk not configured")
	}

	p, err := s.products.Find(ctx, productID)
	if err != nil {
		return nil, err
	}

	key := path.Join("products", fmt.Sprint(p.ID), uuid.NewString()+ext)
	if err := s.disk.Put(ctx, key, r, contentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}

	previous := p.ImageURL
	p.ImageURL = s.disk.URL(key)
	if err := s.products.Update(ctx, p); err != nil {
		_ = s.disk.Delete(ctx, key)
		return nil, err
	}
	s.forget(ctx)

	if old := s.ownedKey(previous); old != "" {
		if err := s.disk.Delete(ctx, old); err != nil {
			logger.WithCtx(ctx).Warn("catalog: old image not removed", "key", old, "error", err)
		}
	}
	return p, nil
}

// ownedKey recovers the object key from a URL this disk produced, or "" for
// external URLs.
func (s *CatalogService) ownedKey(url string) string {
	if url == "" {
		return ""
	}
	base := strings.TrimSuffix(s.disk.URL("x"), "x")
	if base == "" || !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}

func (s *CatalogService) forget(ctx context.Context) {
	if err := cache.ForgetPrefix(ctx, catalogCachePrefix); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "error", err)
	}
}
