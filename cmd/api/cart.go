package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"storefront/internal/cart"
	"storefront/internal/domain/catalog"
	"storefront/internal/pricing"

	"github.com/go-chi/chi/v5"
)

// shopperCart rehydrates the session owner's cart from storage. Every
// handler works on a fresh load; concurrent requests for the same owner
// race with last-writer-wins, same as the persisted snapshot always did.
func (app *application) shopperCart(ctx context.Context, r *http.Request) (*cart.Cart, error) {
	c := cart.NewWithPolicy(app.cartStore, getSessionFromContext(r).Subject, app.config.cartErrorPolicy)
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

type cartLineResponse struct {
	cart.LineItem
	LineTotal    float64          `json:"line_total"`
	PriceDisplay string           `json:"price_display"`
	Discount     pricing.Discount `json:"discount"`
}

type cartResponse struct {
	Items        []cartLineResponse `json:"items"`
	TotalItems   int                `json:"total_items"`
	TotalPrice   float64            `json:"total_price"`
	TotalDisplay string             `json:"total_display"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	resp := cartResponse{
		Items:        make([]cartLineResponse, 0, c.Len()),
		TotalItems:   c.TotalItems(),
		TotalPrice:   c.TotalPrice(),
		TotalDisplay: pricing.FormatPrice(c.TotalPrice(), true),
	}

	for _, it := range c.Items() {
		line := cartLineResponse{
			LineItem:     it,
			LineTotal:    it.Price * float64(it.Quantity),
			PriceDisplay: pricing.FormatPrice(it.Price, true),
		}
		if it.OriginalPrice != nil {
			line.Discount = pricing.FormatDiscount(*it.OriginalPrice, it.Price)
		}
		resp.Items = append(resp.Items, line)
	}

	return resp
}

// getCartHandler godoc
//
//	@Summary		Get cart
//	@Description	Current session's cart with derived totals
//	@Tags			cart
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		200	{object}	cartResponse
//	@Router			/cart [get]
func (app *application) getCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := app.shopperCart(ctx, r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}

type addCartItemPayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,gte=1"`
}

// addCartItemHandler godoc
//
//	@Summary		Add cart item
//	@Description	Adds a product to the cart; repeated adds accumulate quantity on the existing line
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Security		ApiKeyAuth
//	@Success		200	{object}	cartResponse
//	@Router			/cart/items [post]
func (app *application) addCartItemHandler(w http.ResponseWriter, r *http.Request) {
	var payload addCartItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	product, err := app.catalog.GetByID(ctx, payload.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	c, err := app.shopperCart(ctx, r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	snapshot := cart.Product{
		ID:            product.ID,
		Name:          product.Name,
		Seller:        product.Seller,
		Price:         product.Price,
		DiscountPrice: product.DiscountPrice,
		Stock:         product.Stock,
	}
	if product.ImageURL != nil {
		snapshot.ImageURL = *product.ImageURL
	}

	if err := c.AddItem(ctx, snapshot, payload.Quantity); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}

type updateCartItemPayload struct {
	// Absolute quantity; zero or negative removes the line.
	Quantity int `json:"quantity"`
}

func (app *application) updateCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid productID"))
		return
	}

	var payload updateCartItemPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := app.shopperCart(ctx, r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := c.UpdateQuantity(ctx, productID, payload.Quantity); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) removeCartItemHandler(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid productID"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := app.shopperCart(ctx, r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := c.RemoveItem(ctx, productID); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := app.shopperCart(ctx, r)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := c.Clear(ctx); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, newCartResponse(c)); err != nil {
		app.internalServerError(w, r, err)
	}
}
