package services

import (
	"context"
	"testing"
	"time"

	"github.com/shashiranjanraj/liftstore/app/repositories"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostPublishedAtLifecycle(t *testing.T) {
	svc := NewPostService(repositories.NewPostRepository(newServiceDB(t)))
	svc.now = func() time.Time { return fixedNow }
	ctx := context.Background()

	p, err := svc.Create(ctx, PostInput{Title: "Sling angles", Slug: "sling-angles"})
	require.NoError(t, err)
	assert.Nil(t, p.PublishedAt)

	p, err = svc.Update(ctx, p.ID, PostInput{Title: "Sling angles", Slug: "sling-angles", Published: true})
	require.NoError(t, err)
	require.NotNil(t, p.PublishedAt)

	svc.now = func() time.Time { return fixedNow.Add(time.Hour) }
	p, err = svc.Update(ctx, p.ID, PostInput{Title: "Sling angles v2", Slug: "sling-angles", Published: true})
	require.NoError(t, err)
	assert.True(t, p.PublishedAt.Equal(fixedNow), "republishing keeps the original date")

	got, err := svc.PublishedBySlug(ctx, "sling-angles")
	require.NoError(t, err)
	assert.Equal(t, "Sling angles v2", got.Title)

	_, err = svc.Update(ctx, p.ID, PostInput{Title: "x", Slug: "sling-angles"})
	require.NoError(t, err)
	_, err = svc.PublishedBySlug(ctx, "sling-angles")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestOfferingCRUD(t *testing.T) {
	svc := NewOfferingService(repositories.NewServiceRepository(newServiceDB(t)))
	ctx := context.Background()

	o, err := svc.Create(ctx, ServiceOfferingInput{Title: "Inspection", Slug: "inspection", Published: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ServiceOfferingInput{Title: "Dup", Slug: "inspection"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	o, err = svc.Update(ctx, o.ID, ServiceOfferingInput{Title: "LOLER inspection", Slug: "inspection", SortOrder: 3, Published: true})
	require.NoError(t, err)
	assert.Equal(t, 3, o.SortOrder)

	list, pg, err := svc.Published(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.EqualValues(t, 1, pg.Total)

	require.NoError(t, svc.Delete(ctx, o.ID))
	_, err = svc.Find(ctx, o.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
