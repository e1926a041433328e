package documentrepo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"docvault/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, *repository) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)
	return sqlxDB, mock, repo
}

func docColumnNames() []string {
	return []string{
		"id", "owner_id", "title", "file_name", "file_path", "mime", "size",
		"type", "description", "tags", "is_public", "entity_type", "entity_id",
		"view_count", "last_viewed_at", "created_at", "updated_at", "deleted_at", "deleted_by",
	}
}

func TestCreateDocument_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	doc := &models.Document{
		ID:        "doc1",
		OwnerID:   "u1",
		Title:     "Quarterly report",
		FileName:  "report.pdf",
		FilePath:  "u1/doc1",
		Mime:      "application/pdf",
		Size:      2048,
		Type:      models.DocTypeReport,
		Tags:      []string{"finance"},
		IsPublic:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.OwnerID, doc.Title, doc.FileName, doc.FilePath, doc.Mime, doc.Size,
			string(doc.Type), doc.Description, pq.Array(doc.Tags), doc.IsPublic,
			nil, nil, doc.CreatedAt, doc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateDocument(context.Background(), doc)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDocument_WithEntity(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	doc := &models.Document{
		ID:        "doc1",
		OwnerID:   "u1",
		Title:     "Plan",
		FileName:  "plan.txt",
		FilePath:  "u1/doc1",
		Mime:      "text/plain",
		Type:      models.DocTypeText,
		Entity:    &models.EntityRef{Type: models.EntityProject, ID: "p1"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(doc.ID, doc.OwnerID, doc.Title, doc.FileName, doc.FilePath, doc.Mime, doc.Size,
			string(doc.Type), doc.Description, pq.Array(doc.Tags), doc.IsPublic,
			"project", "p1", doc.CreatedAt, doc.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateDocument(context.Background(), doc)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentByID_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	rows := sqlmock.NewRows(docColumnNames()).
		AddRow("doc1", "u1", "Quarterly report", "report.pdf", "u1/doc1", "application/pdf", int64(2048),
			"report", "yearly numbers", "{finance,q4}", false, "project", "p1",
			3, now, now, now, nil, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM documents d(.|\n)*WHERE d.id").
		WithArgs("doc1").
		WillReturnRows(rows)

	doc, err := repo.DocumentByID(context.Background(), "doc1")
	require.NoError(t, err)
	assert.Equal(t, "doc1", doc.ID)
	assert.Equal(t, models.DocTypeReport, doc.Type)
	assert.Equal(t, []string{"finance", "q4"}, doc.Tags)
	require.NotNil(t, doc.Entity)
	assert.Equal(t, models.EntityProject, doc.Entity.Type)
	assert.Equal(t, "p1", doc.Entity.ID)
	assert.Nil(t, doc.DeletedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentByID_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)*FROM documents d(.|\n)*WHERE d.id").
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	doc, err := repo.DocumentByID(context.Background(), "ghost")
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMetadata_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	title := "Renamed"

	mock.ExpectExec("UPDATE documents SET").
		WithArgs("doc1", title, nil, nil, nil, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateMetadata(context.Background(), "doc1", models.DocumentPatch{Title: &title}, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMetadata_NotFound(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()
	title := "Renamed"

	mock.ExpectExec("UPDATE documents SET").
		WithArgs("ghost", title, nil, nil, nil, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMetadata(context.Background(), "ghost", models.DocumentPatch{Title: &title}, now)
	assert.ErrorIs(t, err, models.ErrDocumentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetEntityLink_SetAndClear(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("UPDATE documents SET entity_type").
		WithArgs("doc1", "task", "t1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetEntityLink(context.Background(), "doc1", &models.EntityRef{Type: models.EntityTask, ID: "t1"}, now)
	assert.NoError(t, err)

	mock.ExpectExec("UPDATE documents SET entity_type").
		WithArgs("doc1", nil, nil, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.SetEntityLink(context.Background(), "doc1", nil, now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("UPDATE documents SET deleted_at").
		WithArgs("doc1", now, "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SoftDelete(context.Background(), "doc1", "u1", now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_AlreadyDeleted(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("UPDATE documents SET deleted_at").
		WithArgs("doc1", now, "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDelete(context.Background(), "doc1", "u1", now)
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestore_NotDeleted(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec("UPDATE documents SET deleted_at = NULL").
		WithArgs("doc1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Restore(context.Background(), "doc1")
	assert.ErrorIs(t, err, models.ErrInvalidState)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRestore_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec("UPDATE documents SET deleted_at = NULL").
		WithArgs("doc1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Restore(context.Background(), "doc1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "doc1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementView_Success(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectExec("UPDATE documents SET view_count = view_count").
		WithArgs("doc1", now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.IncrementView(context.Background(), "doc1", now)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTrash_ScopesToRequester(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	rows := sqlmock.NewRows(docColumnNames()).
		AddRow("doc1", "u1", "Old report", "old.pdf", "u1/doc1", "application/pdf", int64(10),
			"report", nil, "{}", false, nil, nil,
			0, nil, now, now, now, "u1")

	mock.ExpectQuery("SELECT(.|\n)*FROM documents d(.|\n)*WHERE d.deleted_at IS NOT NULL").
		WithArgs("u1", false, 20, 0).
		WillReturnRows(rows)

	docs, err := repo.ListTrash(context.Background(), "u1", false, 0, 20)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc1", docs[0].ID)
	assert.NotNil(t, docs[0].DeletedAt)
	assert.Equal(t, "u1", docs[0].DeletedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTrashedBefore_AppliesCutoff(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	cutoff := time.Now().Add(-30 * 24 * time.Hour)

	mock.ExpectQuery("SELECT(.|\n)*FROM documents d(.|\n)*d.deleted_at < ").
		WithArgs("admin1", true, cutoff).
		WillReturnRows(sqlmock.NewRows(docColumnNames()))

	docs, err := repo.TrashedBefore(context.Background(), "admin1", true, cutoff)
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFilteredDocuments_PassesFilters(t *testing.T) {
	t.Parallel()

	db, mock, repo := setup(t)
	defer db.Close()

	now := time.Now()

	rows := sqlmock.NewRows(docColumnNames()).
		AddRow("doc1", "u1", "Budget", "budget.xlsx", "u1/doc1", "application/vnd.ms-excel", int64(99),
			"spreadsheet", nil, "{finance}", true, nil, nil,
			1, nil, now, now, nil, nil)

	mock.ExpectQuery("SELECT(.|\n)*FROM documents d(.|\n)*WHERE d.deleted_at IS NULL").
		WithArgs("budget", "spreadsheet", "", "", "finance").
		WillReturnRows(rows)

	docs, err := repo.FilteredDocuments(context.Background(), models.DocumentFilter{
		Search: "budget",
		Type:   models.DocTypeSpreadsheet,
		Tag:    "finance",
	})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.True(t, docs[0].IsPublic)
	assert.NoError(t, mock.ExpectationsWereMet())
}
