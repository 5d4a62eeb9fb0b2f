package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/Thiht/transactor"
	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"

	"github.com/benjamonnguyen/eisenhower"
)

type kvEntity struct {
	Key       string
	Value     string
	UpdatedAt int64
}

// kvRepo
type kvRepo struct {
	tx        transactor.Transactor
	dbGetter  txStdLib.DBGetter
	namespace string
	l         eisenhower.Logger
}

var _ eisenhower.KVRepo = (*kvRepo)(nil)

func NewKVRepo(tx transactor.Transactor, dbGetter txStdLib.DBGetter, namespace string, logger eisenhower.Logger) eisenhower.KVRepo {
	return &kvRepo{
		tx:        tx,
		dbGetter:  dbGetter,
		namespace: namespace,
		l:         orDiscard(logger),
	}
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("provide key")
	}

	row := r.dbGetter(ctx).QueryRowContext(
		ctx,
		"SELECT key, value, updated_at FROM kv WHERE namespace=? AND key=?", r.namespace, key,
	)
	e, err := extractEntry(row)
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return e.Value, nil
}

func (r *kvRepo) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("provide key")
	}

	return r.upsert(ctx, kvEntity{
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UnixMilli(),
	})
}

func (r *kvRepo) SetMany(ctx context.Context, entries map[string]string) error {
	now := time.Now().UnixMilli()
	return r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		for k, v := range entries {
			if k == "" {
				return fmt.Errorf("provide key")
			}
			if err := r.upsert(txCtx, kvEntity{Key: k, Value: v, UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *kvRepo) upsert(ctx context.Context, e kvEntity) error {
	query := `INSERT INTO kv (namespace, key, value, updated_at) VALUES ` + generateParameters(4) + `
ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	r.l.Debug("setting key", "namespace", r.namespace, "key", e.Key, "bytes", len(e.Value))
	_, err := r.dbGetter(ctx).ExecContext(ctx, query, r.namespace, e.Key, e.Value, e.UpdatedAt)
	return err
}

func (r *kvRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query := fmt.Sprintf("DELETE FROM kv WHERE namespace=? AND key IN %s", generateParameters(len(keys)))
	args := append([]any{r.namespace}, toArgs(keys)...)
	r.l.Debug("deleting keys", "query", query, "keys", keys)
	_, err := r.dbGetter(ctx).ExecContext(ctx, query, args...)
	return err
}

func (r *kvRepo) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.dbGetter(ctx).QueryContext(
		ctx,
		"SELECT key, value, updated_at FROM kv WHERE namespace=? ORDER BY key", r.namespace,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var keys []string
	for rows.Next() {
		e, err := extractEntry(rows)
		if err != nil {
			return nil, err
		}
		keys = append(keys, e.Key)
	}
	return keys, rows.Err()
}

func orDiscard(l eisenhower.Logger) eisenhower.Logger {
	if l == nil {
		return log.New(io.Discard)
	}
	return l
}

func extractEntry(s scannable) (kvEntity, error) {
	var e kvEntity
	if err := s.Scan(&e.Key, &e.Value, &e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return kvEntity{}, eisenhower.ErrNotFound
		}
		return kvEntity{}, err
	}
	return e, nil
}
