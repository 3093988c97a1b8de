package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/forms"
	"github.com/iliyamo/store-directory/internal/repository"
)

// ReviewHandler creates reviews; there is no edit or delete path.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Stores  *repository.StoreRepo
}

func NewReviewHandler(reviews *repository.ReviewRepo, stores *repository.StoreRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: reviews, Stores: stores}
}

// Create adds a review to store :id for the authenticated user.
func (h *ReviewHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return echo.ErrUnauthorized
	}
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}

	var f forms.ReviewForm
	if err := c.Bind(&f); err != nil {
		flash.Set(c, "error", "Invalid form submission.")
		return c.Redirect(http.StatusSeeOther, "/stores")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	store, err := h.Stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return echo.ErrNotFound
		}
		return err
	}

	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Redirect(http.StatusSeeOther, "/store/"+store.Slug)
	}

	if _, err := h.Reviews.Create(ctx, store.ID, uid, f.Rating, f.Text); err != nil {
		return err
	}
	flash.Set(c, "success", "Review saved!")
	return c.Redirect(http.StatusSeeOther, "/store/"+store.Slug)
}
