package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/itemtracker/pkg/database"
	itemdomain "github.com/ghuser/itemtracker/services/item/domain"
	"github.com/ghuser/itemtracker/services/item/domain/models"
)

var (
	qInsertItem = regexp.QuoteMeta(`INSERT INTO item (name, description, user_id)`)
	qGetItem    = regexp.QuoteMeta(`SELECT id, name, description, user_id FROM item WHERE id = $1`)
	qListItems  = regexp.QuoteMeta(`SELECT id, name, description, user_id FROM item ORDER BY id ASC`)
	qLockItem   = regexp.QuoteMeta(`SELECT id, name, description, user_id FROM item WHERE id = $1 FOR UPDATE`)
	qUpdateItem = regexp.QuoteMeta(`UPDATE item SET name = $2, description = $3 WHERE id = $1`)
	qDeleteItem = regexp.QuoteMeta(`DELETE FROM item WHERE id = $1`)

	itemColumns = []string{"id", "name", "description", "user_id"}
)

func newRepoWithMock(t *testing.T) (*ItemRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return NewItemRepository(database.New(sqlDB, nil), nil), mock
}

func strPtr(s string) *string { return &s }

func TestSave(t *testing.T) {
	t.Run("assigns id", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qInsertItem).
			WithArgs("Lamp", sql.NullString{String: "desk", Valid: true}, int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		mock.ExpectCommit()

		item := models.NewItem("Lamp", strPtr("desk"), 2)
		if err := repo.Save(context.Background(), item); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		if item.ID != 5 {
			t.Fatalf("expected ID 5, got %d", item.ID)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("null description", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qInsertItem).
			WithArgs("Lamp", sql.NullString{}, int64(2)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		if err := repo.Save(context.Background(), models.NewItem("Lamp", nil, 2)); err != nil {
			t.Fatalf("Save error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("foreign key violation", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qInsertItem).
			WithArgs("Lamp", sql.NullString{}, int64(999)).
			WillReturnError(&pgconn.PgError{Code: pgForeignKeyViolation, ConstraintName: "item_user_id_fkey"})
		mock.ExpectRollback()

		err := repo.Save(context.Background(), models.NewItem("Lamp", nil, 999))
		if !errors.Is(err, itemdomain.ErrOwnerNotFound) {
			t.Fatalf("want ErrOwnerNotFound, got %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestGetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(qGetItem).WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(int64(3), "Lamp", nil, int64(1)))

		got, err := repo.GetByID(context.Background(), 3)
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if got.ID != 3 || got.Name != "Lamp" || got.OwnerID != 1 || got.Description != nil {
			t.Fatalf("unexpected item: %+v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(qGetItem).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

		if _, err := repo.GetByID(context.Background(), 3); !errors.Is(err, itemdomain.ErrItemNotFound) {
			t.Fatalf("want ErrItemNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Run("ordered rows", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(qListItems).WillReturnRows(sqlmock.NewRows(itemColumns).
			AddRow(int64(1), "a", "first", int64(1)).
			AddRow(int64(2), "b", nil, int64(1)))

		items, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if len(items) != 2 || items[0].ID != 1 || items[1].ID != 2 {
			t.Fatalf("unexpected items: %+v", items)
		}
		if items[0].Description == nil || *items[0].Description != "first" {
			t.Fatalf("unexpected description: %v", items[0].Description)
		}
		if items[1].Description != nil {
			t.Fatalf("expected nil description, got %q", *items[1].Description)
		}
	})

	t.Run("empty table returns empty slice", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(qListItems).WillReturnRows(sqlmock.NewRows(itemColumns))

		items, err := repo.List(context.Background())
		if err != nil {
			t.Fatalf("List error: %v", err)
		}
		if items == nil || len(items) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", items)
		}
	})
}

func TestUpdate(t *testing.T) {
	t.Run("locks, applies and writes in one transaction", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qLockItem).WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(int64(4), "Old", "d", int64(1)))
		mock.ExpectExec(qUpdateItem).
			WithArgs(int64(4), "New", sql.NullString{String: "d", Valid: true}).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		item, err := repo.Update(context.Background(), 4, func(item *models.Item) error {
			item.Name = "New"
			return nil
		})
		if err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if item.Name != "New" || item.OwnerID != 1 || item.Description == nil || *item.Description != "d" {
			t.Fatalf("unexpected item: %+v", item)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("cleared description is written as NULL", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qLockItem).WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(int64(4), "Lamp", "d", int64(1)))
		mock.ExpectExec(qUpdateItem).
			WithArgs(int64(4), "Lamp", sql.NullString{}).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		item, err := repo.Update(context.Background(), 4, func(item *models.Item) error {
			item.ApplyUpdate(nil, models.ReplaceDescription(nil))
			return nil
		})
		if err != nil {
			t.Fatalf("Update error: %v", err)
		}
		if item.Description != nil {
			t.Fatalf("expected nil description, got %q", *item.Description)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("missing row", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qLockItem).WithArgs(int64(4)).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		called := false
		_, err := repo.Update(context.Background(), 4, func(*models.Item) error {
			called = true
			return nil
		})
		if !errors.Is(err, itemdomain.ErrItemNotFound) {
			t.Fatalf("want ErrItemNotFound, got %v", err)
		}
		if called {
			t.Fatal("fn must not run for a missing item")
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("fn error rolls back without writing", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectQuery(qLockItem).WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(itemColumns).AddRow(int64(4), "Lamp", nil, int64(1)))
		mock.ExpectRollback()

		wantErr := errors.New("rejected")
		_, err := repo.Update(context.Background(), 4, func(*models.Item) error { return wantErr })
		if !errors.Is(err, wantErr) {
			t.Fatalf("want %v, got %v", wantErr, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(qDeleteItem).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.Delete(context.Background(), 4); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})

	t.Run("second delete reports not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(qDeleteItem).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		if err := repo.Delete(context.Background(), 4); !errors.Is(err, itemdomain.ErrItemNotFound) {
			t.Fatalf("want ErrItemNotFound, got %v", err)
		}
	})
}
