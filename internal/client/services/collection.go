// Package services contains the application services of the Shelfie client:
// the collection sync manager and the identification-service front end.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/shelfie-app/shelfie/internal/client/api"
	"github.com/shelfie-app/shelfie/internal/client/models"
	"github.com/shelfie-app/shelfie/internal/logging"
)

// CollectionAPI is the slice of the backend API the sync manager needs.
// *api.CollectionClient is the production implementation.
type CollectionAPI interface {
	ListItems(ctx context.Context) ([]models.Item, error)
	ItemImage(ctx context.Context, id models.ID) (string, error)
	AddItem(ctx context.Context, req api.AddItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, id models.ID, update models.ItemUpdate) (*models.Item, error)
	DeleteItem(ctx context.Context, id models.ID) error
	ExportCSV(ctx context.Context) ([]byte, error)
}

// AuthState is the read-only view of the session the sync manager consults.
type AuthState interface {
	IsAuthenticated() bool
}

// CollectionService maintains the client-side mirror of the user's
// collection. It is the exclusive owner of the mirror: consumers read
// copies via Items and route every mutation through its operations.
type CollectionService struct {
	api  CollectionAPI
	auth AuthState
	log  logging.Logger

	mu    sync.Mutex
	items []models.Item
}

func NewCollectionService(collectionAPI CollectionAPI, auth AuthState, log logging.Logger) *CollectionService {
	return &CollectionService{api: collectionAPI, auth: auth, log: log}
}

// Items returns a copy of the current mirror.
func (s *CollectionService) Items() []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Sorted returns the mirror in the shelf/case/name presentation order.
func (s *CollectionService) Sorted() []models.Item {
	items := s.Items()
	models.SortItems(items)
	return items
}

// Load synchronizes the mirror with the server in two phases: one item-list
// fetch, then one image fetch per item, in parallel. Images are zipped back
// by index, never by completion order. A list failure aborts the load and
// empties the mirror; a single image failure only costs that item its
// image. When unauthenticated the mirror is simply emptied.
func (s *CollectionService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.auth.IsAuthenticated() {
		s.items = nil
		return nil
	}

	records, err := s.api.ListItems(ctx)
	if err != nil {
		s.items = nil
		s.log.Error(ctx, "failed to load collection", "error", err)
		return fmt.Errorf("failed to load collection: %w", err)
	}

	images := make([]string, len(records))
	g, gctx := errgroup.WithContext(ctx)
	for i, rec := range records {
		g.Go(func() error {
			img, err := s.api.ItemImage(gctx, rec.ID)
			if err != nil {
				s.log.Warn(gctx, "failed to fetch item image", "id", rec.ID, "error", err)
				return nil
			}
			images[i] = img
			return nil
		})
	}
	_ = g.Wait()

	items := make([]models.Item, len(records))
	for i, rec := range records {
		items[i] = models.Item{
			ID:        rec.ID,
			GameName:  rec.GameName,
			Image:     models.DataURI(models.StripDataURI(images[i])),
			CreatedAt: rec.CreatedAt,
			GameID:    models.NormalizeGameID(rec.GameID),
			Shelf:     rec.Shelf,
			Case:      rec.Case,
		}
	}
	s.items = items
	s.log.Info(ctx, "collection loaded", "items", len(items))
	return nil
}

// Add accepts a pending segment into the collection. The call is idempotent
// by segment id: adding an id that is already mirrored is a no-op. On
// failure the mirror is untouched and the error is returned to the caller
// for user-facing reporting.
func (s *CollectionService) Add(ctx context.Context, segment models.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == segment.ID {
			return nil
		}
	}

	name := segment.Name
	if name == "" {
		name = models.UnknownGameName
	}

	created, err := s.api.AddItem(ctx, api.AddItemRequest{
		GameName:  name,
		ImageData: models.StripDataURI(segment.Image),
		Shelf:     segment.Shelf,
		Case:      segment.Case,
	})
	if err != nil {
		return fmt.Errorf("failed to add item: %w", err)
	}

	// The server response carries id and timestamps but not the image
	// bytes; the locally held image fills the gap.
	shelf := created.Shelf
	if shelf == "" {
		shelf = segment.Shelf
	}
	caseID := created.Case
	if caseID == "" {
		caseID = segment.Case
	}
	s.items = append(s.items, models.Item{
		ID:        created.ID,
		GameName:  created.GameName,
		Image:     models.DataURI(segment.Image),
		CreatedAt: created.CreatedAt,
		GameID:    models.NormalizeGameID(created.GameID),
		Shelf:     shelf,
		Case:      caseID,
	})
	return nil
}

// Remove deletes one item. On failure the mirror is left unchanged and the
// error is returned; deletions are never silently lost.
func (s *CollectionService) Remove(ctx context.Context, id models.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.api.DeleteItem(ctx, id); err != nil {
		s.log.Error(ctx, "failed to remove item", "id", id, "error", err)
		return fmt.Errorf("failed to remove item: %w", err)
	}

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	return nil
}

// Update applies a partial update and merges the server's view of the item
// into the mirror, keeping the existing image unless the update carried a
// new one.
func (s *CollectionService) Update(ctx context.Context, id models.ID, update models.ItemUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := s.api.UpdateItem(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	for i := range s.items {
		if s.items[i].ID != id {
			continue
		}
		image := s.items[i].Image
		if update.ImageData != nil && *update.ImageData != "" {
			image = models.DataURI(*update.ImageData)
		}
		s.items[i] = models.Item{
			ID:        id,
			GameName:  updated.GameName,
			Image:     image,
			CreatedAt: updated.CreatedAt,
			GameID:    models.NormalizeGameID(updated.GameID),
			Shelf:     updated.Shelf,
			Case:      updated.Case,
		}
		break
	}
	return nil
}

// Clear deletes every item concurrently. The local mirror is emptied
// regardless of individual failures — that lossiness is the documented
// contract — but failures are still joined and returned so callers can see
// them.
func (s *CollectionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		errMu sync.Mutex
		errs  []error
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range s.items {
		g.Go(func() error {
			if err := s.api.DeleteItem(gctx, item.ID); err != nil {
				errMu.Lock()
				errs = append(errs, fmt.Errorf("item %s: %w", item.ID, err))
				errMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	s.items = nil
	if len(errs) > 0 {
		s.log.Warn(ctx, "collection cleared locally with server-side failures", "failures", len(errs))
		return errors.Join(errs...)
	}
	return nil
}

// ExportCSV returns the server-rendered CSV of the collection.
func (s *CollectionService) ExportCSV(ctx context.Context) ([]byte, error) {
	data, err := s.api.ExportCSV(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export collection: %w", err)
	}
	return data, nil
}
