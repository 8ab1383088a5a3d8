package db

import (
	"database/sql"
)

type Item struct {
	ID          int64
	Name        string
	Description sql.NullString
	UserID      int64
}
