package db

import (
	"context"
	"database/sql"
)

const insertItem = `-- name: InsertItem :one
INSERT INTO item (name, description, user_id)
VALUES ($1, $2, $3)
RETURNING id
`

type InsertItemParams struct {
	Name        string
	Description sql.NullString
	UserID      int64
}

func (q *Queries) InsertItem(ctx context.Context, arg InsertItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, insertItem, arg.Name, arg.Description, arg.UserID)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getItemByID = `-- name: GetItemByID :one
SELECT id, name, description, user_id FROM item
WHERE id = $1
`

func (q *Queries) GetItemByID(ctx context.Context, id int64) (Item, error) {
	row := q.db.QueryRowContext(ctx, getItemByID, id)
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.UserID,
	)
	return i, err
}

const getItemByIDForUpdate = `-- name: GetItemByIDForUpdate :one
SELECT id, name, description, user_id FROM item
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetItemByIDForUpdate(ctx context.Context, id int64) (Item, error) {
	row := q.db.QueryRowContext(ctx, getItemByIDForUpdate, id)
	var i Item
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.UserID,
	)
	return i, err
}

const listItems = `-- name: ListItems :many
SELECT id, name, description, user_id FROM item
ORDER BY id ASC
`

func (q *Queries) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := q.db.QueryContext(ctx, listItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Item{}
	for rows.Next() {
		var i Item
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.UserID,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateItem = `-- name: UpdateItem :execrows
UPDATE item SET name = $2, description = $3
WHERE id = $1
`

type UpdateItemParams struct {
	ID          int64
	Name        string
	Description sql.NullString
}

func (q *Queries) UpdateItem(ctx context.Context, arg UpdateItemParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateItem, arg.ID, arg.Name, arg.Description)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteItem = `-- name: DeleteItem :execrows
DELETE FROM item
WHERE id = $1
`

func (q *Queries) DeleteItem(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
