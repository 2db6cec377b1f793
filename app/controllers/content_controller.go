package controllers

import (
	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

func (c *PostController) PublicIndex(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.posts.Published(x.Context(), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *PostController) PublicShow(x *ctx.Context) {
	post, err := c.posts.PublishedBySlug(x.Context(), x.Param("slug"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(post)
}

func (c *PostController) Index(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.posts.List(x.Context(), x.Query("q"), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *PostController) Show(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	post, err := c.posts.Find(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(post)
}

func (c *PostController) Store(x *ctx.Context) {
	var in services.PostInput
	if !x.BindJSON(&in) {
		return
	}
	post, err := c.posts.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(post)
}

func (c *PostController) Update(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.PostInput
	if !x.BindJSON(&in) {
		return
	}
	post, err := c.posts.Update(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(post)
}

func (c *PostController) Destroy(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	if err := c.posts.Delete(x.Context(), id); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

type OfferingController struct {
	offerings *services.OfferingService
}

func NewOfferingController(offerings *services.OfferingService) *OfferingController {
	return &OfferingController{offerings: offerings}
}

func (c *OfferingController) PublicIndex(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.offerings.Published(x.Context(), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *OfferingController) PublicShow(x *ctx.Context) {
	o, err := c.offerings.PublishedBySlug(x.Context(), x.Param("slug"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(o)
}

func (c *OfferingController) Index(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.offerings.List(x.Context(), x.Query("q"), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *OfferingController) Show(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	o, err := c.offerings.Find(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(o)
}

func (c *OfferingController) Store(x *ctx.Context) {
	var in services.ServiceOfferingInput
	if !x.BindJSON(&in) {
		return
	}
	o, err := c.offerings.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(o)
}

func (c *OfferingController) Update(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.ServiceOfferingInput
	if !x.BindJSON(&in) {
		return
	}
	o, err := c.offerings.Update(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(o)
}

func (c *OfferingController) Destroy(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	if err := c.offerings.Delete(x.Context(), id); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}
