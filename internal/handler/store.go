package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/store-directory/internal/config"
	"github.com/iliyamo/store-directory/internal/flash"
	"github.com/iliyamo/store-directory/internal/forms"
	"github.com/iliyamo/store-directory/internal/photo"
	"github.com/iliyamo/store-directory/internal/repository"
)

// storesPerPage is the page size of the store listing.
const storesPerPage = 10

// tagChoices is the fixed set of tags offered on the store form.
var tagChoices = []string{"Wifi", "Open Late", "Family Friendly", "Vegetarian", "Licensed"}

// StoreHandler bundles everything the store pages touch.
type StoreHandler struct {
	Cfg       config.Config
	Stores    *repository.StoreRepo
	Reviews   *repository.ReviewRepo
	Favorites *repository.FavoriteRepo
	Users     *repository.UserRepo
}

func NewStoreHandler(cfg config.Config, stores *repository.StoreRepo, reviews *repository.ReviewRepo,
	favorites *repository.FavoriteRepo, users *repository.UserRepo) *StoreHandler {
	if stores == nil || reviews == nil || favorites == nil || users == nil {
		panic("nil repository passed to NewStoreHandler")
	}
	return &StoreHandler{Cfg: cfg, Stores: stores, Reviews: reviews, Favorites: favorites, Users: users}
}

// List renders one page of stores, newest first. A page past the end
// redirects to the last valid page instead of rendering an empty list.
func (h *StoreHandler) List(c echo.Context) error {
	page := 1
	if p := c.Param("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			return echo.ErrNotFound
		}
		page = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	stores, count, err := h.Stores.List(ctx, page, storesPerPage)
	if err != nil {
		return err
	}
	pages := int((count + storesPerPage - 1) / storesPerPage)
	if len(stores) == 0 && page > 1 && pages > 0 {
		flash.Set(c, "info", fmt.Sprintf("Page %d doesn't exist. You've been redirected to page %d", page, pages))
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/stores/page/%d", pages))
	}

	return c.Render(http.StatusOK, "stores", viewData(c, h.Users, "Stores", echo.Map{
		"Stores": stores,
		"Page":   page,
		"Pages":  pages,
		"Count":  count,
	}))
}

// AddForm renders the empty store form.
func (h *StoreHandler) AddForm(c echo.Context) error {
	return c.Render(http.StatusOK, "editStore", viewData(c, h.Users, "Add Store", echo.Map{
		"Store":      repository.Store{},
		"Action":     "/add",
		"TagChoices": tagChoices,
		"Checked":    map[string]bool{},
	}))
}

// EditForm renders the form pre-filled with an existing store. Only the
// owning author may open it.
func (h *StoreHandler) EditForm(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	uid, err := getUserID(c)
	if err != nil {
		return echo.ErrUnauthorized
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	store, err := h.Stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	if store.OwnerID != uid {
		return repository.ErrForbidden
	}

	checked := make(map[string]bool, len(store.Tags))
	for _, t := range store.Tags {
		checked[t] = true
	}
	return c.Render(http.StatusOK, "editStore", viewData(c, h.Users, "Edit "+store.Name, echo.Map{
		"Store":      store,
		"Action":     fmt.Sprintf("/add/%d", store.ID),
		"TagChoices": tagChoices,
		"Checked":    checked,
	}))
}

// bindStoreForm parses the multipart submission and, when a photo was
// attached, validates/resizes/stores it before anything touches the
// database. The record that references the filename is only written after
// the file exists on disk.
func (h *StoreHandler) bindStoreForm(c echo.Context) (forms.StoreForm, string, error) {
	var f forms.StoreForm
	if err := c.Bind(&f); err != nil {
		return f, "", fmt.Errorf("bad store form: %w", err)
	}

	file, err := c.FormFile("photo")
	if err != nil {
		return f, "", nil // no photo attached
	}
	name, err := photo.Process(file, h.Cfg.UploadDir)
	if err != nil {
		return f, "", err
	}
	return f, name, nil
}

// Create validates and saves a new store owned by the requesting user.
func (h *StoreHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return echo.ErrUnauthorized
	}
	f, photoName, err := h.bindStoreForm(c)
	if err != nil {
		if errors.Is(err, photo.ErrNotImage) {
			flash.Set(c, "error", "That filetype isn't supported")
			return c.Redirect(http.StatusSeeOther, "/add")
		}
		return err
	}
	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Redirect(http.StatusSeeOther, "/add")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	store := repository.Store{
		OwnerID:     uid,
		Name:        f.Name,
		Description: f.Description,
		Address:     f.Address,
		Lng:         f.Lng,
		Lat:         f.Lat,
		Photo:       photoName,
		Tags:        f.Tags,
	}
	if err := h.Stores.Create(ctx, &store); err != nil {
		return err
	}
	flash.Set(c, "success", fmt.Sprintf("Successfully Created: %s. Care to leave a review?", store.Name))
	return c.Redirect(http.StatusSeeOther, "/store/"+store.Slug)
}

// Update saves changes to an existing store after checking ownership.
func (h *StoreHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.ErrNotFound
	}
	uid, err := getUserID(c)
	if err != nil {
		return echo.ErrUnauthorized
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Stores.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	if cur.OwnerID != uid {
		return repository.ErrForbidden
	}

	f, photoName, err := h.bindStoreForm(c)
	if err != nil {
		if errors.Is(err, photo.ErrNotImage) {
			flash.Set(c, "error", "That filetype isn't supported")
			return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/store/%d/edit", id))
		}
		return err
	}
	if msgs := f.Validate(); len(msgs) > 0 {
		for _, m := range msgs {
			flash.Set(c, "error", m)
		}
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/store/%d/edit", id))
	}

	store := repository.Store{
		ID:          id,
		OwnerID:     cur.OwnerID,
		Name:        f.Name,
		Description: f.Description,
		Address:     f.Address,
		Lng:         f.Lng,
		Lat:         f.Lat,
		Photo:       photoName, // empty keeps the stored photo
		Tags:        f.Tags,
	}
	if err := h.Stores.Update(ctx, &store); err != nil {
		return err
	}
	flash.Set(c, "success", fmt.Sprintf("Successfully Updated: %s", store.Name))
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/store/%d/edit", id))
}

// Detail renders one store by slug, with its author and reviews.
func (h *StoreHandler) Detail(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	store, err := h.Stores.GetBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrStoreNotFound) {
			return echo.ErrNotFound
		}
		return err
	}
	reviews, err := h.Reviews.ListForStore(ctx, store.ID)
	if err != nil {
		return err
	}

	isFavorite := false
	if uid, err := getUserID(c); err == nil {
		ids, err := h.Favorites.ListIDs(ctx, uid)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if id == store.ID {
				isFavorite = true
				break
			}
		}
	}

	return c.Render(http.StatusOK, "store", viewData(c, h.Users, store.Name, echo.Map{
		"Store":      store,
		"Reviews":    reviews,
		"IsFavorite": isFavorite,
	}))
}

// Tags renders the tag histogram next to the stores carrying the selected
// tag (or every tagged store when none is selected).
func (h *StoreHandler) Tags(c echo.Context) error {
	selected := c.Param("tag")

	ctx, cancel := reqCtx(c)
	defer cancel()

	tags, err := h.Stores.TagCounts(ctx)
	if err != nil {
		return err
	}
	stores, err := h.Stores.ListByTag(ctx, selected)
	if err != nil {
		return err
	}

	title := selected
	if title == "" {
		title = "All Tags"
	}
	return c.Render(http.StatusOK, "tags", viewData(c, h.Users, title, echo.Map{
		"Tags":     tags,
		"Selected": selected,
		"Stores":   stores,
	}))
}

// Top renders the ten best-rated stores with at least two reviews.
func (h *StoreHandler) Top(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	stores, err := h.Stores.TopStores(ctx)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "topStores", viewData(c, h.Users, "★ Top Stores!", echo.Map{
		"Stores": stores,
	}))
}

// Map renders the map page; markers arrive via the /api/stores/near JSON
// endpoint.
func (h *StoreHandler) Map(c echo.Context) error {
	return c.Render(http.StatusOK, "map", viewData(c, h.Users, "Map", nil))
}
