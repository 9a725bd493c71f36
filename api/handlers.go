package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/morgaesis/wishapp/internal/errs"
	"github.com/morgaesis/wishapp/store"
	"github.com/morgaesis/wishapp/wishlist"
)

// HandlerFunc serves one route. params holds the captured path segments.
type HandlerFunc func(ctx context.Context, req Request, params map[string]string) (Response, error)

// Handlers implements the wishlist operations on top of a Store.
type Handlers struct {
	store  store.Store
	logger *slog.Logger
	newID  func() string
}

// NewHandlers creates the handler set.
func NewHandlers(s store.Store, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		store:  s,
		logger: logger,
		newID:  wishlist.NewID,
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health reports liveness without touching the store.
func (h *Handlers) Health(_ context.Context, _ Request, _ map[string]string) (Response, error) {
	return JSON(http.StatusOK, healthResponse{Status: "OK"})
}

// List returns every wishlist.
func (h *Handlers) List(ctx context.Context, _ Request, _ map[string]string) (Response, error) {
	all, err := h.store.Scan(ctx)
	if err != nil {
		return Response{}, errs.NewBackingStore(err)
	}
	for i := range all {
		all[i] = all[i].Normalize()
	}
	if all == nil {
		all = []wishlist.Wishlist{}
	}
	return JSON(http.StatusOK, all)
}

// Get returns the wishlist named by the {id} path segment.
func (h *Handlers) Get(ctx context.Context, _ Request, params map[string]string) (Response, error) {
	w, err := h.find(ctx, params["id"])
	if err != nil {
		return Response{}, err
	}
	return JSON(http.StatusOK, w.Normalize())
}

// Create stores a new wishlist, assigning an id when the body has none.
func (h *Handlers) Create(ctx context.Context, req Request, _ map[string]string) (Response, error) {
	var body wishlistRequest
	if err := decodeJSON(req.Body, &body, true); err != nil {
		return Response{}, err
	}
	if err := validateStruct(body); err != nil {
		return Response{}, err
	}

	w := body.toWishlist()
	if w.ID == "" {
		w.ID = h.newID()
	}

	if err := h.store.Put(ctx, w); err != nil {
		return Response{}, errs.NewBackingStore(err)
	}

	h.logger.Info("wishlist created",
		"requestID", req.RequestID,
		"wishlistID", w.ID,
		"itemCount", len(w.Items),
	)
	return JSON(http.StatusCreated, w)
}

// Replace overwrites an existing wishlist with the request body.
func (h *Handlers) Replace(ctx context.Context, req Request, _ map[string]string) (Response, error) {
	var body wishlistRequest
	if err := decodeJSON(req.Body, &body, true); err != nil {
		return Response{}, err
	}
	if body.ID == "" {
		return Response{}, errs.NewMissingID()
	}
	if err := validateStruct(body); err != nil {
		return Response{}, err
	}

	if _, err := h.find(ctx, body.ID); err != nil {
		return Response{}, err
	}

	w := body.toWishlist()
	if err := h.store.Replace(ctx, w); err != nil {
		return Response{}, storeErr(w.ID, err)
	}

	h.logger.Info("wishlist replaced",
		"requestID", req.RequestID,
		"wishlistID", w.ID,
		"itemCount", len(w.Items),
	)
	return JSON(http.StatusOK, w)
}

// Delete removes the wishlist whose id is given in the request body.
func (h *Handlers) Delete(ctx context.Context, req Request, _ map[string]string) (Response, error) {
	var body deleteRequest
	if err := decodeJSON(req.Body, &body, false); err != nil {
		return Response{}, err
	}
	if body.ID == "" {
		return Response{}, errs.NewMissingID()
	}

	if _, err := h.find(ctx, body.ID); err != nil {
		return Response{}, err
	}
	if err := h.store.Delete(ctx, body.ID); err != nil {
		return Response{}, storeErr(body.ID, err)
	}

	h.logger.Info("wishlist deleted",
		"requestID", req.RequestID,
		"wishlistID", body.ID,
	)
	return NoContent(), nil
}

// find loads a wishlist, classifying the store's answer.
func (h *Handlers) find(ctx context.Context, id string) (wishlist.Wishlist, error) {
	if id == "" {
		return wishlist.Wishlist{}, errs.NewMissingID()
	}
	w, err := h.store.Get(ctx, id)
	if err != nil {
		return wishlist.Wishlist{}, storeErr(id, err)
	}
	return w, nil
}

func storeErr(id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errs.NewNotFound(fmt.Sprintf("wishlist %s not found", id))
	}
	return errs.NewBackingStore(err)
}
