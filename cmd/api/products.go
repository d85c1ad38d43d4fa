package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"storefront/internal/domain/catalog"
	"storefront/internal/params"
	"storefront/internal/pricing"

	"github.com/go-chi/chi/v5"
)

func generateSlug(name string) string {
	// Convert to lowercase
	slug := strings.ToLower(name)

	// Replace spaces and special characters
	slug = regexp.MustCompile(`[^a-z0-9]+`).ReplaceAllString(slug, "-")
	slug = regexp.MustCompile(`^-|-$`).ReplaceAllString(slug, "")

	return slug
}

// productResponse decorates a catalog product with the derived discount view
// the storefront renders on cards and detail pages.
type productResponse struct {
	*catalog.Product
	PriceDisplay string           `json:"price_display"`
	Discount     pricing.Discount `json:"discount"`
}

func newProductResponse(p *catalog.Product) productResponse {
	resp := productResponse{
		Product:      p,
		PriceDisplay: pricing.FormatPrice(p.Price, true),
	}
	if p.DiscountPrice != nil {
		resp.PriceDisplay = pricing.FormatPrice(*p.DiscountPrice, true)
		resp.Discount = pricing.FormatDiscount(p.Price, *p.DiscountPrice)
	} else {
		resp.Discount = pricing.FormatDiscount(p.Price, 0)
	}
	return resp
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Paginated catalog listing with optional category and search filters
//	@Tags			products
//	@Produce		json
//	@Param			page		query	int		false	"page number"
//	@Param			limit		query	int		false	"items per page"
//	@Param			category	query	string	false	"category filter"
//	@Param			search		query	string	false	"name/description search"
//	@Success		200	{object}	map[string]any
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, total, err := app.catalog.List(ctx, catalog.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Search:   strings.TrimSpace(q.Get("search")),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	out := make([]productResponse, 0, len(products))
	for _, prod := range products {
		out = append(out, newProductResponse(prod))
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]any{
		"products":   out,
		"pagination": p,
	}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid productID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := app.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newProductResponse(product)); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getProductBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := app.catalog.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newProductResponse(product)); err != nil {
		app.internalServerError(w, r, err)
	}
}

type createProductPayload struct {
	Name          string   `json:"name" validate:"required,min=2,max=120"`
	Slug          string   `json:"slug" validate:"omitempty,slug"`
	Description   *string  `json:"description" validate:"omitempty,max=2000"`
	ImageURL      *string  `json:"image_url" validate:"omitempty,url"`
	Category      *string  `json:"category" validate:"omitempty,max=60"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,gt=0"`
	Stock         int      `json:"stock" validate:"gte=0"`
}

// createProductHandler godoc
//
//	@Summary		Create product
//	@Description	Seller-side product creation
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		201	{object}	catalog.Product
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload createProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if payload.DiscountPrice != nil && *payload.DiscountPrice >= payload.Price {
		app.badRequestResponse(w, r, fmt.Errorf("discount_price must be lower than price"))
		return
	}

	slug := payload.Slug
	if slug == "" {
		slug = generateSlug(payload.Name)
	}

	product := &catalog.Product{
		Name:          payload.Name,
		Slug:          slug,
		Description:   payload.Description,
		ImageURL:      payload.ImageURL,
		Seller:        getSessionFromContext(r).Subject,
		Category:      payload.Category,
		Price:         payload.Price,
		DiscountPrice: payload.DiscountPrice,
		Stock:         payload.Stock,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := app.catalog.Create(ctx, product)
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateSlug) {
			app.conflictResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, newProductResponse(product)); err != nil {
		app.internalServerError(w, r, err)
	}
}
