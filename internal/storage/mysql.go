package storage

import (
	"context"
	"database/sql"
	"errors"
)

// kvSchema creates the single table used by MySQLKV.  utf8mb4 keys are
// capped at 191 characters so the primary key index fits older InnoDB
// row formats.
const kvSchema = `CREATE TABLE IF NOT EXISTS kv_store (
	k VARCHAR(191) NOT NULL PRIMARY KEY,
	v LONGTEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// MySQLKV stores values in the kv_store table of a MySQL database.
type MySQLKV struct {
	db *sql.DB
}

func NewMySQLKV(db *sql.DB) *MySQLKV {
	return &MySQLKV{db: db}
}

// EnsureSchema creates the kv_store table when it does not exist.
func (m *MySQLKV) EnsureSchema(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, kvSchema)
	return err
}

func (m *MySQLKV) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT v FROM kv_store WHERE k = ?`
	var v []byte
	if err := m.db.QueryRowContext(ctx, q, key).Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return v, nil
}

func (m *MySQLKV) Set(ctx context.Context, key string, value []byte) error {
	const q = `INSERT INTO kv_store (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`
	_, err := m.db.ExecContext(ctx, q, key, value)
	return err
}

func (m *MySQLKV) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_store WHERE k = ?`
	_, err := m.db.ExecContext(ctx, q, key)
	return err
}
