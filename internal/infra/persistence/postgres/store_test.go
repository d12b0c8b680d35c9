package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfmlportal/internal/infra/persistence/postgres/testutil"
	"pfmlportal/pkg/domain"
)

func openStub(t *testing.T) *testutil.StubConn {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(driver, dsn string) (*sql.DB, error) {
		assert.Equal(t, defaultDriver, driver)
		assert.Equal(t, defaultDSN, dsn)
		return db, nil
	})
	t.Cleanup(restore)
	return conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	conn := openStub(t)
	store, err := NewStore(context.Background(), "", domain.NewRulesEngine())
	require.NoError(t, err)
	require.NotNil(t, store.DB())

	require.NotEmpty(t, conn.Execs)
	assert.Contains(t, strings.ToUpper(conn.Execs[0]), "CREATE TABLE IF NOT EXISTS STATE")
	assert.Empty(t, store.ListClaims())
}

func TestRunInTransactionPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	conn := openStub(t)
	store, err := NewStore(ctx, "", nil)
	require.NoError(t, err)

	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateClaim(domain.NewClaim("app-1"))
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, conn.Commits)
	assert.Contains(t, string(conn.Buckets["claims"]), `"application_id":"app-1"`)
	assert.Equal(t, "{}", string(conn.Buckets["documents"]))

	reloaded, err := NewStore(ctx, "", nil)
	require.NoError(t, err)
	_, ok := reloaded.GetClaim("app-1")
	assert.True(t, ok)
}

func TestNewStoreErrors(t *testing.T) {
	ctx := context.Background()

	conn := openStub(t)
	conn.FailPing = true
	_, err := NewStore(ctx, "", nil)
	require.ErrorContains(t, err, "ping postgres")

	conn = openStub(t)
	conn.FailExec = true
	_, err = NewStore(ctx, "", nil)
	require.ErrorContains(t, err, "ensure state table")

	conn = openStub(t)
	conn.FailQuery = true
	_, err = NewStore(ctx, "", nil)
	require.ErrorContains(t, err, "select state")

	conn = openStub(t)
	conn.Buckets["claims"] = []byte("not json")
	_, err = NewStore(ctx, "", nil)
	require.ErrorContains(t, err, "decode claims")
}

func TestPersistFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	conn := openStub(t)
	store, err := NewStore(ctx, "", nil)
	require.NoError(t, err)

	conn.FailCommit = true
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateClaim(domain.NewClaim("app-1"))
		return err
	})
	require.ErrorContains(t, err, "commit")

	conn.FailCommit = false
	conn.FailBegin = true
	_, err = store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		_, err := tx.CreateClaim(domain.NewClaim("app-2"))
		return err
	})
	require.ErrorContains(t, err, "begin tx")
}
