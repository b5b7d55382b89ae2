package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfie-app/shelfie/internal/client/api"
	"github.com/shelfie-app/shelfie/internal/client/models"
	"github.com/shelfie-app/shelfie/internal/logging"
)

// ---- fakes ----

type fakeAuth struct{ authed bool }

func (f *fakeAuth) IsAuthenticated() bool { return f.authed }

type fakeCollectionAPI struct {
	mu sync.Mutex

	listItems []models.Item
	listErr   error

	images   map[models.ID]string
	imageErr map[models.ID]error

	added   []api.AddItemRequest
	addResp *models.Item
	addErr  error

	updateResp *models.Item
	updateErr  error

	deleted   []models.ID
	deleteErr map[models.ID]error

	csv    []byte
	csvErr error
}

func (f *fakeCollectionAPI) ListItems(ctx context.Context) ([]models.Item, error) {
	return f.listItems, f.listErr
}

func (f *fakeCollectionAPI) ItemImage(ctx context.Context, id models.ID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.imageErr[id]; err != nil {
		return "", err
	}
	return f.images[id], nil
}

func (f *fakeCollectionAPI) AddItem(ctx context.Context, req api.AddItemRequest) (*models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, req)
	return f.addResp, f.addErr
}

func (f *fakeCollectionAPI) UpdateItem(ctx context.Context, id models.ID, update models.ItemUpdate) (*models.Item, error) {
	return f.updateResp, f.updateErr
}

func (f *fakeCollectionAPI) DeleteItem(ctx context.Context, id models.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCollectionAPI) ExportCSV(ctx context.Context) ([]byte, error) {
	return f.csv, f.csvErr
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newService(f *fakeCollectionAPI, authed bool) *CollectionService {
	return NewCollectionService(f, &fakeAuth{authed: authed}, testLogger())
}

// ---- TESTS ----

func TestLoad_UnauthenticatedEmptiesMirror(t *testing.T) {
	f := &fakeCollectionAPI{listItems: []models.Item{{ID: "1"}}}
	s := newService(f, false)

	require.NoError(t, s.Load(context.Background()))
	assert.Empty(t, s.Items())
}

func TestLoad_ZipsImagesByIndex(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{
			{ID: "1", GameName: "Catan", GameID: "13"},
			{ID: "2", GameName: "Root", GameID: ""},
			{ID: "3", GameName: "Brass", GameID: "null"},
		},
		images: map[models.ID]string{"1": "aaa", "2": "bbb", "3": "ccc"},
	}
	s := newService(f, true)

	require.NoError(t, s.Load(context.Background()))

	items := s.Items()
	require.Len(t, items, 3)
	// Image i belongs to item i regardless of fetch completion order.
	assert.Equal(t, "data:image/jpeg;base64,aaa", items[0].Image)
	assert.Equal(t, "data:image/jpeg;base64,bbb", items[1].Image)
	assert.Equal(t, "data:image/jpeg;base64,ccc", items[2].Image)
	assert.Equal(t, "13", items[0].GameID)
	assert.Equal(t, models.NoGameID, items[1].GameID)
	assert.Equal(t, models.NoGameID, items[2].GameID)
}

func TestLoad_SingleImageFailureOnlyCostsThatImage(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}, {ID: "2"}},
		images:    map[models.ID]string{"1": "aaa"},
		imageErr:  map[models.ID]error{"2": errors.New("image store down")},
	}
	s := newService(f, true)

	require.NoError(t, s.Load(context.Background()))

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "data:image/jpeg;base64,aaa", items[0].Image)
	assert.Empty(t, items[1].Image)
}

func TestLoad_ListFailureEmptiesMirror(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}},
		images:    map[models.ID]string{"1": "aaa"},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))
	require.Len(t, s.Items(), 1)

	f.listErr = errors.New("boom")
	err := s.Load(context.Background())

	require.Error(t, err)
	assert.Empty(t, s.Items(), "stale mirror is never kept after a failed sync")
}

func TestAdd_IsIdempotentBySegmentID(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "seg-1", GameName: "Catan"}},
		images:    map[models.ID]string{},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Add(context.Background(), models.Segment{ID: "seg-1", Name: "Catan"}))

	assert.Empty(t, f.added, "an already-mirrored segment is not re-uploaded")
	assert.Len(t, s.Items(), 1)
}

func TestAdd_StripsDataURIAndKeepsLocalImage(t *testing.T) {
	f := &fakeCollectionAPI{
		addResp: &models.Item{ID: "42", GameName: "Unknown Game", GameID: ""},
	}
	s := newService(f, true)

	seg := models.Segment{
		ID:    "seg-9",
		Image: "data:image/jpeg;base64,abc123",
		Shelf: "2",
		Case:  "1",
	}
	require.NoError(t, s.Add(context.Background(), seg))

	require.Len(t, f.added, 1)
	assert.Equal(t, "abc123", f.added[0].ImageData, "data-URI prefix never travels to the server")
	assert.Equal(t, models.UnknownGameName, f.added[0].GameName)

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ID("42"), items[0].ID)
	assert.Equal(t, "data:image/jpeg;base64,abc123", items[0].Image, "server omits image bytes; the local copy fills in")
	assert.Equal(t, "2", items[0].Shelf, "server omitted placement; segment's wins")
	assert.Equal(t, "1", items[0].Case)
	assert.Equal(t, models.NoGameID, items[0].GameID)
}

func TestAdd_FailureLeavesMirrorUntouched(t *testing.T) {
	f := &fakeCollectionAPI{addErr: errors.New("boom")}
	s := newService(f, true)

	err := s.Add(context.Background(), models.Segment{ID: "seg-1", Name: "Catan"})

	require.Error(t, err)
	assert.Empty(t, s.Items())
}

func TestRemove(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}, {ID: "2"}},
		images:    map[models.ID]string{},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Remove(context.Background(), "1"))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, models.ID("2"), items[0].ID)
}

func TestRemove_FailureIsVisibleAndLeavesMirror(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}},
		images:    map[models.ID]string{},
		deleteErr: map[models.ID]error{"1": errors.New("boom")},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	err := s.Remove(context.Background(), "1")

	require.Error(t, err, "a failed deletion is never silent")
	assert.Len(t, s.Items(), 1, "item stays until the server confirms")
}

func TestUpdate_PreservesImageUnlessReplaced(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1", GameName: "Catan"}},
		images:    map[models.ID]string{"1": "aaa"},
		updateResp: &models.Item{
			ID: "1", GameName: "Catan: Seafarers", GameID: "325", Shelf: "3", Case: "2",
		},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	name := "Catan: Seafarers"
	require.NoError(t, s.Update(context.Background(), "1", models.ItemUpdate{GameName: &name}))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Catan: Seafarers", items[0].GameName)
	assert.Equal(t, "3", items[0].Shelf)
	assert.Equal(t, "data:image/jpeg;base64,aaa", items[0].Image, "image survives a metadata update")
}

func TestClear_PartialFailureStillEmptiesLocally(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}, {ID: "2"}, {ID: "3"}},
		images:    map[models.ID]string{},
		deleteErr: map[models.ID]error{"2": errors.New("boom")},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	err := s.Clear(context.Background())

	require.Error(t, err, "server-side failures surface to the caller")
	assert.Contains(t, err.Error(), "item 2")
	assert.Empty(t, s.Items(), "the local mirror is emptied regardless")
	assert.ElementsMatch(t, []models.ID{"1", "3"}, f.deleted)
}

func TestClear_AllSucceed(t *testing.T) {
	f := &fakeCollectionAPI{
		listItems: []models.Item{{ID: "1"}, {ID: "2"}},
		images:    map[models.ID]string{},
	}
	s := newService(f, true)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Clear(context.Background()))
	assert.Empty(t, s.Items())
	assert.ElementsMatch(t, []models.ID{"1", "2"}, f.deleted)
}

func TestExportCSV(t *testing.T) {
	f := &fakeCollectionAPI{csv: []byte("id,game_name\n1,Catan\n")}
	s := newService(f, true)

	data, err := s.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.csv, data)

	f.csvErr = errors.New("boom")
	_, err = s.ExportCSV(context.Background())
	assert.Error(t, err)
}
