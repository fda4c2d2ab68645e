package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinechain/cinebook/internal/repository"
)

type execCall struct {
	sql  string
	args []any
}

// fakeDB records the statements a repo issues. Only the paths the tests
// drive are implemented.
type fakeDB struct {
	execs        []execCall
	batches      []*pgx.Batch
	rowsAffected int64
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.rowsAffected)), nil
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.batches = append(f.batches, b)
	return nopBatchResults{}
}

type nopBatchResults struct{}

func (nopBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (nopBatchResults) Query() (pgx.Rows, error)         { return nil, errors.New("not implemented") }
func (nopBatchResults) QueryRow() pgx.Row                { panic("not implemented") }
func (nopBatchResults) Close() error                     { return nil }

func TestAdminRepoSeatWritesKeepCapacityInStep(t *testing.T) {
	db := &fakeDB{rowsAffected: 1}
	repo := (&AdminRepo{}).With(db)
	ctx := context.Background()

	require.NoError(t, repo.BatchCreateSeats(ctx, 7, []int{11, 12, 13}))
	require.Len(t, db.batches, 1)
	assert.Equal(t, 3, db.batches[0].Len())

	require.NoError(t, repo.SyncRoomCapacity(ctx, 7))
	require.Len(t, db.execs, 1)

	// capacity is recomputed from the live seat rows, not incremented
	sync := db.execs[0]
	assert.Contains(t, sync.sql, "UPDATE rooms")
	assert.Contains(t, sync.sql, "SELECT COUNT(*) FROM seats")
	assert.Contains(t, sync.sql, "deleted_at IS NULL")
	assert.Equal(t, []any{int64(7)}, sync.args)
}

func TestAdminRepoSyncRoomCapacityMissingRoom(t *testing.T) {
	db := &fakeDB{rowsAffected: 0}
	repo := (&AdminRepo{}).With(db)

	err := repo.SyncRoomCapacity(context.Background(), 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
