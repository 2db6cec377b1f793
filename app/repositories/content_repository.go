package repositories

import (
	"context"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
	"gorm.io/gorm"
)

// ContentFilter narrows post and service listings. Public endpoints always
// set PublishedOnly.
type ContentFilter struct {
	PublishedOnly bool
	Search        string
}

func (f ContentFilter) apply(q *orm.Query, titleColumn string) *orm.Query {
	if f.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if f.Search != "" {
		q = q.Where(titleColumn+" LIKE ?", "%"+f.Search+"%")
	}
	return q
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

// List returns posts newest first.
func (r *PostRepository) List(ctx context.Context, f ContentFilter, page, limit int) ([]models.Post, orm.Pagination, error) {
	var posts []models.Post
	q := f.apply(r.q(ctx).Model(&models.Post{}), "title").Order("published_at desc").Order("id desc")
	p, err := q.Paginate(page, limit, &posts)
	return posts, p, apperr.FromStore("post", err)
}

func (r *PostRepository) Find(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.q(ctx).Where("id = ?", id).First(&post); err != nil {
		return nil, apperr.FromStore("post", err)
	}
	return &post, nil
}

// FindPublishedBySlug never returns drafts.
func (r *PostRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	var post models.Post
	if err := r.q(ctx).Where("slug = ? AND published = ?", slug, true).First(&post); err != nil {
		return nil, apperr.FromStore("post", err)
	}
	return &post, nil
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return apperr.FromStore("post", r.q(ctx).Create(post))
}

func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	return apperr.FromStore("post", r.q(ctx).Save(post))
}

func (r *PostRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.q(ctx), &models.Post{}, id, "post")
}

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) q(ctx context.Context) *orm.Query {
	return orm.Use(r.db).WithContext(ctx)
}

// List returns offerings in display order.
func (r *ServiceRepository) List(ctx context.Context, f ContentFilter, page, limit int) ([]models.ServiceOffering, orm.Pagination, error) {
	var items []models.ServiceOffering
	q := f.apply(r.q(ctx).Model(&models.ServiceOffering{}), "title").Order("sort_order asc").Order("id asc")
	p, err := q.Paginate(page, limit, &items)
	return items, p, apperr.FromStore("service", err)
}

func (r *ServiceRepository) Find(ctx context.Context, id uint) (*models.ServiceOffering, error) {
	var s models.ServiceOffering
	if err := r.q(ctx).Where("id = ?", id).First(&s); err != nil {
		return nil, apperr.FromStore("service", err)
	}
	return &s, nil
}

func (r *ServiceRepository) FindPublishedBySlug(ctx context.Context, slug string) (*models.ServiceOffering, error) {
	var s models.ServiceOffering
	if err := r.q(ctx).Where("slug = ? AND published = ?", slug, true).First(&s); err != nil {
		return nil, apperr.FromStore("service", err)
	}
	return &s, nil
}

func (r *ServiceRepository) Create(ctx context.Context, s *models.ServiceOffering) error {
	return apperr.FromStore("service", r.q(ctx).Create(s))
}

func (r *ServiceRepository) Update(ctx context.Context, s *models.ServiceOffering) error {
	return apperr.FromStore("service", r.q(ctx).Save(s))
}

func (r *ServiceRepository) Delete(ctx context.Context, id uint) error {
	return deleteByID(r.q(ctx), &models.ServiceOffering{}, id, "service")
}

func deleteByID(q *orm.Query, model interface{}, id uint, entity string) error {
	n, err := q.Delete(model, id)
	if err != nil {
		return apperr.FromStore(entity, err)
	}
	if n == 0 {
		return apperr.NotFound(entity)
	}
	return nil
}
