package shareservice

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

type MockShareRepository struct {
	mock.Mock
}

func (m *MockShareRepository) Upsert(ctx context.Context, share *models.Share) (*models.Share, error) {
	args := m.Called(ctx, share)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareRepository) ShareByID(ctx context.Context, documentID string, shareID string) (*models.Share, error) {
	args := m.Called(ctx, documentID, shareID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Share), args.Error(1)
}

func (m *MockShareRepository) ListActive(ctx context.Context, documentID string) ([]*models.Share, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Share), args.Error(1)
}

func (m *MockShareRepository) Revoke(ctx context.Context, shareID string, revokedBy string, revokedAt time.Time) error {
	args := m.Called(ctx, shareID, revokedBy, revokedAt)
	return args.Error(0)
}

func (m *MockShareRepository) UpdatePermissions(ctx context.Context, shareID string, patch models.SharePatch) error {
	args := m.Called(ctx, shareID, patch)
	return args.Error(0)
}

type MockDocumentProvider struct {
	mock.Mock
}

func (m *MockDocumentProvider) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Document), args.Error(1)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) ExistingActiveIDs(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAccessResolver struct {
	mock.Mock
}

func (m *MockAccessResolver) Decide(ctx context.Context, doc *models.Document, user *models.User, action models.Action) (bool, error) {
	args := m.Called(ctx, doc, user, action)
	return args.Bool(0), args.Error(1)
}

type nopNotifier struct{}

func (nopNotifier) NotifyShare(ctx context.Context, documentID string, title string, recipientID string, actorID string, canEdit bool) error {
	return nil
}

type nopActivity struct{}

func (nopActivity) Record(ctx context.Context, documentID string, userID string, action string, metadata map[string]any) error {
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	shares *MockShareRepository
	docs   *MockDocumentProvider
	users  *MockUserDirectory
	access *MockAccessResolver
}

func newFixture() (*ShareService, fixture) {
	f := fixture{
		shares: new(MockShareRepository),
		docs:   new(MockDocumentProvider),
		users:  new(MockUserDirectory),
		access: new(MockAccessResolver),
	}
	return New(discardLogger(), f.shares, f.docs, f.users, f.access, nopNotifier{}, nopActivity{}), f
}

func owner() *models.User {
	return &models.User{ID: "owner", Role: models.RoleUser, IsActive: true}
}

func TestUpsertShares_NoTargets(t *testing.T) {
	t.Parallel()

	service, _ := newFixture()

	_, err := service.UpsertShares(context.Background(), "doc1", owner(), nil, false, false, nil)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestUpsertShares_Forbidden(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "someone-else"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(false, nil)

	_, err := service.UpsertShares(context.Background(), "doc1", owner(), []string{"u2"}, false, false, nil)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpsertShares_UnknownTargets(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.users.On("ExistingActiveIDs", mock.Anything, []string{"u2", "ghost"}).Return([]string{"u2"}, nil)

	_, err := service.UpsertShares(context.Background(), "doc1", owner(), []string{"u2", "ghost"}, false, false, nil)

	var unknown *models.UnknownUsersError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []string{"ghost"}, unknown.IDs)
	assert.ErrorIs(t, err, models.ErrInvalidParams)

	f.shares.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestUpsertShares_Success(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner", Title: "Report"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.users.On("ExistingActiveIDs", mock.Anything, []string{"u2", "u3"}).Return([]string{"u2", "u3"}, nil)

	f.shares.On("Upsert", mock.Anything, mock.MatchedBy(func(s *models.Share) bool {
		return s.DocumentID == "doc1" && s.CanEdit && !s.CanDelete && s.ID != ""
	})).Return(&models.Share{ID: "s1", DocumentID: "doc1"}, nil)

	shares, err := service.UpsertShares(context.Background(), "doc1", owner(), []string{"u2", "u3"}, true, false, nil)
	require.NoError(t, err)
	assert.Len(t, shares, 2)

	f.shares.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestListShares_Success(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ListActive", mock.Anything, "doc1").Return([]*models.Share{{ID: "s1"}, {ID: "s2"}}, nil)

	shares, err := service.ListShares(context.Background(), "doc1", owner())
	require.NoError(t, err)
	assert.Len(t, shares, 2)
}

func TestRevoke_AlreadyRevokedIsNoOp(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	revokedAt := time.Now().Add(-time.Hour)

	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ShareByID", mock.Anything, "doc1", "s1").Return(&models.Share{ID: "s1", RevokedAt: &revokedAt}, nil)

	err := service.Revoke(context.Background(), "doc1", "s1", owner())
	assert.NoError(t, err)

	f.shares.AssertNotCalled(t, "Revoke", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRevoke_Success(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}

	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ShareByID", mock.Anything, "doc1", "s1").Return(&models.Share{ID: "s1", SharedWithID: "u2"}, nil)
	f.shares.On("Revoke", mock.Anything, "s1", "owner", mock.AnythingOfType("time.Time")).Return(nil)

	err := service.Revoke(context.Background(), "doc1", "s1", owner())
	assert.NoError(t, err)

	f.shares.AssertExpectations(t)
}

func TestRevoke_ShareNotFound(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}

	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ShareByID", mock.Anything, "doc1", "ghost").Return(nil, models.ErrShareNotFound)

	err := service.Revoke(context.Background(), "doc1", "ghost", owner())
	assert.ErrorIs(t, err, models.ErrShareNotFound)
}

func TestUpdatePermissions_RevokedShare(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	revokedAt := time.Now()

	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ShareByID", mock.Anything, "doc1", "s1").Return(&models.Share{ID: "s1", RevokedAt: &revokedAt}, nil)

	canEdit := true
	err := service.UpdatePermissions(context.Background(), "doc1", "s1", models.SharePatch{CanEdit: &canEdit}, owner())
	assert.ErrorIs(t, err, models.ErrInvalidState)

	f.shares.AssertNotCalled(t, "UpdatePermissions", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdatePermissions_Success(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}

	canDelete := true
	patch := models.SharePatch{CanDelete: &canDelete}

	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.shares.On("ShareByID", mock.Anything, "doc1", "s1").Return(&models.Share{ID: "s1"}, nil)
	f.shares.On("UpdatePermissions", mock.Anything, "s1", patch).Return(nil)

	err := service.UpdatePermissions(context.Background(), "doc1", "s1", patch, owner())
	assert.NoError(t, err)

	f.shares.AssertExpectations(t)
}

func TestUpsertShares_DocumentNotFound(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	f.docs.On("DocumentByID", mock.Anything, "ghost").Return(nil, models.ErrDocumentNotFound)

	_, err := service.UpsertShares(context.Background(), "ghost", owner(), []string{"u2"}, false, false, nil)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
}

func TestUpsertShares_RepoFailure(t *testing.T) {
	t.Parallel()

	service, f := newFixture()

	doc := &models.Document{ID: "doc1", OwnerID: "owner"}
	f.docs.On("DocumentByID", mock.Anything, "doc1").Return(doc, nil)
	f.access.On("Decide", mock.Anything, doc, mock.Anything, models.ActionShare).Return(true, nil)
	f.users.On("ExistingActiveIDs", mock.Anything, []string{"u2"}).Return([]string{"u2"}, nil)
	f.shares.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	_, err := service.UpsertShares(context.Background(), "doc1", owner(), []string{"u2"}, false, false, nil)
	assert.ErrorIs(t, err, models.ErrInternal)
}
