package lifecycleservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"docvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) SoftDelete(ctx context.Context, id string, deletedBy string, deletedAt time.Time) error {
	args := m.Called(ctx, id, deletedBy, deletedAt)
	return args.Error(0)
}

func (m *MockDocumentRepository) Restore(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) ListTrash(ctx context.Context, userID string, admin bool, page int, limit int) ([]*models.Document, error) {
	args := m.Called(ctx, userID, admin, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) TrashedBefore(ctx context.Context, userID string, admin bool, cutoff time.Time) ([]*models.Document, error) {
	args := m.Called(ctx, userID, admin, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Document), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) SaveFile(ctx context.Context, path string, mime string, size int64, reader io.Reader) error {
	args := m.Called(ctx, path, mime, size, reader)
	return args.Error(0)
}

func (m *MockFileStorage) LoadFile(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockFileStorage) DeleteFile(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockAccessResolver struct {
	mock.Mock
}

func (m *MockAccessResolver) Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error) {
	args := m.Called(ctx, doc, user, action)
	return args.Bool(0), args.Error(1)
}

type nopCache struct{}

func (nopCache) Del(ctx context.Context, keys ...string) error { return nil }

type nopActivity struct{}

func (nopActivity) Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testRetention = 30 * 24 * time.Hour

type fixture struct {
	docs   *MockDocumentRepository
	files  *MockFileStorage
	access *MockAccessResolver
}

func newFixture() (*LifecycleService, fixture) {
	f := fixture{
		docs:   new(MockDocumentRepository),
		files:  new(MockFileStorage),
		access: new(MockAccessResolver),
	}
	return New(discardLogger(), f.docs, f.files, f.access, nopCache{}, nopActivity{}, testRetention), f
}

func owner() *models.User {
	return &models.User{ID: "owner", Role: models.RoleUser, IsActive: true}
}

func admin() *models.User {
	return &models.User{ID: "a1", Role: models.RoleAdmin, IsActive: true}
}

func TestSoftDelete_Success(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionDelete).Return(true, nil)
	f.docs.On("SoftDelete", mock.Anything, "doc1", "owner", mock.AnythingOfType("time.Time")).Return(nil)

	err := service.SoftDelete(context.Background(), "doc1", owner())
	assert.NoError(t, err)

	f.docs.AssertExpectations(t)
}

func TestSoftDelete_AlreadyTrashed(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	deletedAt := time.Now()
	doc := &models.Document{ID: "doc1", OwnerID: "owner", DeletedAt: &deletedAt}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)

	err := service.SoftDelete(context.Background(), "doc1", owner())
	assert.ErrorIs(t, err, models.ErrInvalidState)

	f.docs.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSoftDelete_Forbidden(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "someone-else"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionDelete).Return(false, nil)

	err := service.SoftDelete(context.Background(), "doc1", owner())
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRestore_NotTrashed(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)

	err := service.Restore(context.Background(), "doc1", owner())
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestRestore_DeleterMayRestore(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	deletedAt := time.Now()
	doc := &models.Document{ID: "doc1", OwnerID: "someone-else", DeletedAt: &deletedAt, DeletedBy: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.docs.On("Restore", mock.Anything, "doc1").Return(nil)

	err := service.Restore(context.Background(), "doc1", owner())
	assert.NoError(t, err)
}

func TestRestore_StrangerForbidden(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	deletedAt := time.Now()
	doc := &models.Document{ID: "doc1", OwnerID: "someone-else", DeletedAt: &deletedAt, DeletedBy: "someone-else"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)

	err := service.Restore(context.Background(), "doc1", owner())
	assert.ErrorIs(t, err, models.ErrForbidden)

	f.docs.AssertNotCalled(t, "Restore", mock.Anything, mock.Anything)
}

func TestPurge_ActiveDocument(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", FilePath: "owner/doc1"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionDelete).Return(true, nil)
	f.files.On("DeleteFile", mock.Anything, "owner/doc1").Return(nil)
	f.docs.On("Delete", mock.Anything, "doc1").Return(nil)

	err := service.Purge(context.Background(), "doc1", owner())
	assert.NoError(t, err)

	f.docs.AssertExpectations(t)
	f.files.AssertExpectations(t)
}

func TestPurge_FileDeletionFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", FilePath: "owner/doc1"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionDelete).Return(true, nil)
	f.files.On("DeleteFile", mock.Anything, "owner/doc1").Return(errors.New("storage down"))
	f.docs.On("Delete", mock.Anything, "doc1").Return(nil)

	err := service.Purge(context.Background(), "doc1", owner())
	assert.NoError(t, err)

	f.docs.AssertCalled(t, "Delete", mock.Anything, "doc1")
}

func TestPurge_NotFound(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	f.docs.On("DocumentByID", mock.Anything, "ghost").Return(nil, models.ErrDocumentNotFound)

	err := service.Purge(context.Background(), "ghost", owner())
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestListTrash_AdminScope(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	f.docs.On("ListTrash", mock.Anything, "a1", true, 0, 20).Return([]*models.Document{{ID: "doc1"}}, nil)

	docs, err := service.ListTrash(context.Background(), admin(), 0, 20)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestEmptySweep_UsesRetentionCutoff(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	f.docs.On("TrashedBefore", mock.Anything, "owner", false, mock.MatchedBy(func(cutoff time.Time) bool {
		expected := time.Now().Add(-testRetention)
		return cutoff.Sub(expected).Abs() < time.Minute
	})).Return([]*models.Document{}, nil)

	purged, err := service.EmptySweep(context.Background(), owner())
	require.NoError(t, err)
	assert.Zero(t, purged)
}

func TestEmptySweep_ContinuesPastRowFailures(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	docs := []*models.Document{
		{ID: "doc1", FilePath: "u/doc1"},
		{ID: "doc2", FilePath: "u/doc2"},
		{ID: "doc3", FilePath: "u/doc3"},
	}

	f.docs.On("TrashedBefore", mock.Anything, "a1", true, mock.AnythingOfType("time.Time")).Return(docs, nil)
	f.files.On("DeleteFile", mock.Anything, mock.AnythingOfType("string")).Return(nil)
	f.docs.On("Delete", mock.Anything, "doc1").Return(nil)
	f.docs.On("Delete", mock.Anything, "doc2").Return(errors.New("db hiccup"))
	f.docs.On("Delete", mock.Anything, "doc3").Return(nil)

	purged, err := service.EmptySweep(context.Background(), admin())
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
}
