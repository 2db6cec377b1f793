package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/liftstore/app/services"
	"github.com/shashiranjanraj/liftstore/pkg/apperr"
	"github.com/shashiranjanraj/liftstore/pkg/ctx"
)

const maxImageBytes = 8 << 20

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// ── Public ────────────────────────────────────────────────────────────────────

func (c *ProductController) PublicIndex(x *ctx.Context) {
	page, limit := x.Page()
	res, err := c.catalog.PublishedProducts(x.Context(), x.Query("category"), x.Query("q"), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(res.Items, res.Pagination)
}

func (c *ProductController) PublicShow(x *ctx.Context) {
	p, err := c.catalog.PublishedProduct(x.Context(), x.Param("slug"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(p)
}

func (c *ProductController) Categories(x *ctx.Context) {
	cats, err := c.catalog.Categories(x.Context())
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(cats)
}

// ── Admin ─────────────────────────────────────────────────────────────────────

func (c *ProductController) Index(x *ctx.Context) {
	page, limit := x.Page()
	items, p, err := c.catalog.List(x.Context(), x.Query("q"), page, limit)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Paginated(items, p)
}

func (c *ProductController) Show(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	p, err := c.catalog.Find(x.Context(), id)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(p)
}

func (c *ProductController) Store(x *ctx.Context) {
	var in services.ProductInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.catalog.Create(x.Context(), in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Created(p)
}

func (c *ProductController) Update(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.ProductInput
	if !x.BindJSON(&in) {
		return
	}
	p, err := c.catalog.Update(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(p)
}

func (c *ProductController) Destroy(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	if err := c.catalog.Delete(x.Context(), id); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

// GenerateVariants handles POST /api/admin/products/{id}/variants/generate.
// ?preview=true returns the descriptors without writing them.
func (c *ProductController) GenerateVariants(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.GenerateInput
	if !x.BindJSON(&in) {
		return
	}
	preview := x.QueryBool("preview")
	specs, err := c.catalog.GenerateVariants(x.Context(), id, in, preview)
	if err != nil {
		x.Fail(err)
		return
	}
	if preview {
		x.Success(specs)
		return
	}
	x.Created(specs)
}

func (c *ProductController) UpdateVariant(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	var in services.VariantPatch
	if !x.BindJSON(&in) {
		return
	}
	v, err := c.catalog.UpdateVariant(x.Context(), id, in)
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(v)
}

func (c *ProductController) DestroyVariant(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	if err := c.catalog.DeleteVariant(x.Context(), id); err != nil {
		x.Fail(err)
		return
	}
	x.NoContent()
}

// UploadImage handles the multipart "image" field.
func (c *ProductController) UploadImage(x *ctx.Context) {
	id, ok := x.ParamID("id")
	if !ok {
		return
	}
	x.R.Body = http.MaxBytesReader(x.W, x.R.Body, maxImageBytes)
	if err := x.R.ParseMultipartForm(maxImageBytes); err != nil {
		x.Fail(apperr.Invalid("image", "The image must be a file no larger than 8MB."))
		return
	}
	file, header, err := x.R.FormFile("image")
	if err != nil {
		x.Fail(apperr.Invalid("image", "The image field is required."))
		return
	}
	defer file.Close()

	p, err := c.catalog.UploadImage(x.Context(), id, file, header.Header.Get("Content-Type"))
	if err != nil {
		x.Fail(err)
		return
	}
	x.Success(p)
}
