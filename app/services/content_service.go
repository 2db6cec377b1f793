package services

import (
	"context"
	"time"

	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
)

type PostInput struct {
	Title      string `json:"title" validate:"required,min=2,max=255"`
	Slug       string `json:"slug" validate:"required,slug,max=191"`
	Excerpt    string `json:"excerpt" validate:"max=500"`
	Body       string `json:"body"`
	CoverImage string `json:"cover_image" validate:"nullable,url,max=500"`
	Published  bool   `json:"published"`
}

type PostService struct {
	posts *repositories.PostRepository
	now   func() time.Time
}

func NewPostService(posts *repositories.PostRepository) *PostService {
	return &PostService{posts: posts, now: time.Now}
}

func (s *PostService) Published(ctx context.Context, page, limit int) ([]models.Post, orm.Pagination, error) {
	return s.posts.List(ctx, repositories.ContentFilter{PublishedOnly: true}, page, limit)
}

func (s *PostService) PublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.posts.FindPublishedBySlug(ctx, slug)
}

func (s *PostService) List(ctx context.Context, search string, page, limit int) ([]models.Post, orm.Pagination, error) {
	return s.posts.List(ctx, repositories.ContentFilter{Search: search}, page, limit)
}

func (s *PostService) Find(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.Find(ctx, id)
}

func (s *PostService) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	var p models.Post
	s.apply(&p, in)
	if err := s.posts.Create(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	p, err := s.posts.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.apply(p, in)
	if err := s.posts.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.posts.Delete(ctx, id)
}

// apply copies the input; published_at is set the first time a post is
// published and cleared when it goes back to draft.
func (s *PostService) apply(p *models.Post, in PostInput) {
	p.Title = in.Title
	p.Slug = in.Slug
	p.Excerpt = in.Excerpt
	p.Body = in.Body
	p.CoverImage = in.CoverImage
	p.Published = in.Published
	switch {
	case in.Published && p.PublishedAt == nil:
		now := s.now()
		p.PublishedAt = &now
	case !in.Published:
		p.PublishedAt = nil
	}
}

type ServiceOfferingInput struct {
	Title     string `json:"title" validate:"required,min=2,max=255"`
	Slug      string `json:"slug" validate:"required,slug,max=191"`
	Summary   string `json:"summary" validate:"max=500"`
	Body      string `json:"body"`
	Icon      string `json:"icon" validate:"max=100"`
	SortOrder int    `json:"sort_order" validate:"nullable,gte=0"`
	Published bool   `json:"published"`
}

func (in ServiceOfferingInput) apply(s *models.ServiceOffering) {
	s.Title = in.Title
	s.Slug = in.Slug
	s.Summary = in.Summary
	s.Body = in.Body
	s.Icon = in.Icon
	s.SortOrder = in.SortOrder
	s.Published = in.Published
}

type OfferingService struct {
	offerings *repositories.ServiceRepository
}

func NewOfferingService(offerings *repositories.ServiceRepository) *OfferingService {
	return &OfferingService{offerings: offerings}
}

func (s *OfferingService) Published(ctx context.Context, page, limit int) ([]models.ServiceOffering, orm.Pagination, error) {
	return s.offerings.List(ctx, repositories.ContentFilter{PublishedOnly: true}, page, limit)
}

func (s *OfferingService) PublishedBySlug(ctx context.Context, slug string) (*models.ServiceOffering, error) {
	return s.offerings.FindPublishedBySlug(ctx, slug)
}

func (s *OfferingService) List(ctx context.Context, search string, page, limit int) ([]models.ServiceOffering, orm.Pagination, error) {
	return s.offerings.List(ctx, repositories.ContentFilter{Search: search}, page, limit)
}

func (s *OfferingService) Find(ctx context.Context, id uint) (*models.ServiceOffering, error) {
	return s.offerings.Find(ctx, id)
}

func (s *OfferingService) Create(ctx context.Context, in ServiceOfferingInput) (*models.ServiceOffering, error) {
	var o models.ServiceOffering
	in.apply(&o)
	if err := s.offerings.Create(ctx, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *OfferingService) Update(ctx context.Context, id uint, in ServiceOfferingInput) (*models.ServiceOffering, error) {
	o, err := s.offerings.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(o)
	if err := s.offerings.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OfferingService) Delete(ctx context.Context, id uint) error {
	return s.offerings.Delete(ctx, id)
}
