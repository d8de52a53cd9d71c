package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type beginnerFunc func(ctx context.Context) (pgx.Tx, error)

func (f beginnerFunc) Begin(ctx context.Context) (pgx.Tx, error) { return f(ctx) }

func beginTx(tx *stubTx) beginnerFunc {
	return func(context.Context) (pgx.Tx, error) { return tx, nil }
}

type stubTx struct {
	execErr   error
	execErrAt int
	execN     int
	execSQLs  []string
	execArgs  [][]any
	tags      []pgconn.CommandTag

	queryErr error
	rows     []pgx.Rows
	queryN   int

	commitErr  error
	committed  bool
	rolledBack bool
}

func (t *stubTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }
func (t *stubTx) Commit(context.Context) error {
	if t.commitErr != nil {
		return t.commitErr
	}
	t.committed = true
	return nil
}
func (t *stubTx) Rollback(context.Context) error { t.rolledBack = true; return nil }
func (t *stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *stubTx) Conn() *pgx.Conn { return nil }

// Exec hands out tags in order; once they run out every statement reports
// one affected row.
func (t *stubTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQLs = append(t.execSQLs, sql)
	t.execArgs = append(t.execArgs, args)
	t.execN++
	if t.execErr != nil {
		at := t.execErrAt
		if at == 0 {
			at = 1
		}
		if t.execN == at {
			return pgconn.CommandTag{}, t.execErr
		}
	}
	if len(t.tags) > 0 {
		tag := t.tags[0]
		t.tags = t.tags[1:]
		return tag, nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (t *stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	t.queryN++
	if t.queryErr != nil {
		return nil, t.queryErr
	}
	if t.queryN <= len(t.rows) {
		return t.rows[t.queryN-1], nil
	}
	return &sliceRows{}, nil
}

func (t *stubTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return &sliceRows{err: errors.New("unexpected QueryRow")}
}

type sliceRows struct {
	vals    [][]any
	idx     int
	scanErr error
	err     error
}

func (r *sliceRows) Close()                        {}
func (r *sliceRows) Err() error                    { return r.err }
func (r *sliceRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }
func (r *sliceRows) FieldDescriptions() []pgconn.FieldDescription {
	return nil
}
func (r *sliceRows) Next() bool {
	if r.idx >= len(r.vals) {
		return false
	}
	r.idx++
	return true
}
func (r *sliceRows) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if r.err != nil && len(r.vals) == 0 {
		return r.err
	}
	row := r.vals[r.idx-1]
	if len(row) != len(dest) {
		return fmt.Errorf("scan: %d values for %d targets", len(row), len(dest))
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *int:
			*v = row[i].(int)
		case *int64:
			*v = row[i].(int64)
		case *string:
			*v = row[i].(string)
		case *[]byte:
			*v = append([]byte(nil), row[i].([]byte)...)
		default:
			return errors.New("unsupported scan type")
		}
	}
	return nil
}
func (r *sliceRows) Values() ([]any, error) { return nil, nil }
func (r *sliceRows) RawValues() [][]byte    { return nil }
func (r *sliceRows) Conn() *pgx.Conn        { return nil }
