// Package graphql is the read-only public catalog served on /graphql.
// Only published rows are reachable.
package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"
	"github.com/shashiranjanraj/liftstore/app/models"
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	gql "github.com/shashiranjanraj/liftstore/pkg/graphql"
	"github.com/shashiranjanraj/liftstore/pkg/orm"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type ProductReader interface {
	PublishedProducts(ctx context.Context, category, search string, page, limit int) (services.ProductPage, error)
	PublishedProduct(ctx context.Context, slug string) (*models.Product, error)
}

type PostReader interface {
	Published(ctx context.Context, page, limit int) ([]models.Post, orm.Pagination, error)
	PublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
}

type OfferingReader interface {
	Published(ctx context.Context, page, limit int) ([]models.ServiceOffering, orm.Pagination, error)
}

type Sources struct {
	Products  ProductReader
	Posts     PostReader
	Offerings OfferingReader
}

func limitArg(p graphql.ResolveParams) int {
	n, _ := p.Args["limit"].(int)
	switch {
	case n <= 0:
		return defaultLimit
	case n > maxLimit:
		return maxLimit
	}
	return n
}

// notFoundIsNull turns a missing row into a null field instead of an error.
func notFoundIsNull(v any, err error) (any, error) {
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func optional(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func timestamp(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// idField resolves the primary key; the default resolver does not descend
// into the embedded models.Model.
var idField = &graphql.Field{
	Type: graphql.NewNonNull(graphql.Int),
	Resolve: func(p graphql.ResolveParams) (any, error) {
		switch v := p.Source.(type) {
		case models.ProductVariant:
			return int(v.ID), nil
		case models.Product:
			return int(v.ID), nil
		case *models.Product:
			return int(v.ID), nil
		case models.Post:
			return int(v.ID), nil
		case *models.Post:
			return int(v.ID), nil
		case models.ServiceOffering:
			return int(v.ID), nil
		}
		return nil, nil
	},
}

var variantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Variant",
	Fields: graphql.Fields{
		"id":  idField,
		"sku": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"capacity": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return optional(p.Source.(models.ProductVariant).Capacity), nil
		}},
		"length": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return optional(p.Source.(models.ProductVariant).Length), nil
		}},
		"endConnectionStyle": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return optional(p.Source.(models.ProductVariant).EndConnectionStyle), nil
		}},
		"price": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (any, error) {
			return p.Source.(models.ProductVariant).Price.StringFixed(2), nil
		}},
		"stock": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          idField,
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"category":    &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"imageUrl": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return asProduct(p.Source).ImageURL, nil
		}},
		"price": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: func(p graphql.ResolveParams) (any, error) {
			return asProduct(p.Source).BasePrice.StringFixed(2), nil
		}},
		"variants": &graphql.Field{Type: graphql.NewList(graphql.NewNonNull(variantType)), Resolve: func(p graphql.ResolveParams) (any, error) {
			return asProduct(p.Source).Variants, nil
		}},
	},
})

func asProduct(src any) models.Product {
	if p, ok := src.(*models.Product); ok {
		return *p
	}
	return src.(models.Product)
}

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":      idField,
		"title":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"excerpt": &graphql.Field{Type: graphql.String},
		"body":    &graphql.Field{Type: graphql.String},
		"coverImage": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return asPost(p.Source).CoverImage, nil
		}},
		"publishedAt": &graphql.Field{Type: graphql.String, Resolve: func(p graphql.ResolveParams) (any, error) {
			return timestamp(asPost(p.Source).PublishedAt), nil
		}},
	},
})

func asPost(src any) models.Post {
	if p, ok := src.(*models.Post); ok {
		return *p
	}
	return src.(models.Post)
}

var serviceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Service",
	Fields: graphql.Fields{
		"id":      idField,
		"title":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"slug":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"summary": &graphql.Field{Type: graphql.String},
		"body":    &graphql.Field{Type: graphql.String},
		"icon":    &graphql.Field{Type: graphql.String},
	},
})

// NewSchema builds the public catalog schema over src.
func NewSchema(src Sources) (graphql.Schema, error) {
	limit := graphql.FieldConfigArgument{"limit": &graphql.ArgumentConfig{Type: graphql.Int}}
	slug := graphql.FieldConfigArgument{"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)}}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(productType)),
				Args: graphql.FieldConfigArgument{
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					page, err := src.Products.PublishedProducts(p.Context, category, "", 1, limitArg(p))
					if err != nil {
						return nil, err
					}
					return page.Items, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: slug,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return notFoundIsNull(src.Products.PublishedProduct(p.Context, p.Args["slug"].(string)))
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(postType)),
				Args: limit,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					items, _, err := src.Posts.Published(p.Context, 1, limitArg(p))
					return items, err
				},
			},
			"post": &graphql.Field{
				Type: postType,
				Args: slug,
				Resolve: func(p graphql.ResolveParams) (any, error) {
					return notFoundIsNull(src.Posts.PublishedBySlug(p.Context, p.Args["slug"].(string)))
				},
			},
			"services": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(serviceType)),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					items, _, err := src.Offerings.Published(p.Context, 1, maxLimit)
					return items, err
				},
			},
		},
	})
	return gql.NewSchema(query)
}
