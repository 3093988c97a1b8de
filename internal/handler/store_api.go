package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/repository"
)

const (
	textSearchLimit = 5
	nearSearchLimit = 10
)

// Search is the typeahead endpoint: up to five stores ranked by full-text
// relevance. An empty or whitespace-only query short-circuits to an empty
// list rather than matching everything.
func (h *StoreHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusOK, []repository.SearchRow{})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Stores.TextSearch(ctx, q, textSearchLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// Near returns up to ten stores within 10 km of the given point, nearest
// first. Coordinates must parse as finite numbers; anything else is a 400,
// never a silently empty result.
func (h *StoreHandler) Near(c echo.Context) error {
	lng, errLng := strconv.ParseFloat(c.QueryParam("lng"), 64)
	lat, errLat := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if errLng != nil || errLat != nil ||
		math.IsNaN(lng) || math.IsInf(lng, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lng must be finite numbers"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rows, err := h.Stores.Near(ctx, lng, lat, nearSearchLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rows)
}

// Favorite toggles a store in the requesting user's favorites set and
// returns the updated set. It is a toggle, not a set/unset: clients track
// their own state to avoid double-toggling.
func (h *StoreHandler) Favorite(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	storeID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid store id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	added, err := h.Favorites.Toggle(ctx, uid, storeID)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "store not found"})
		}
		return err
	}
	ids, err := h.Favorites.ListIDs(ctx, uid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"favorited": added,
		"favorites": ids,
	})
}
