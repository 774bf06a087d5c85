package authority

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

func newMockStore(t *testing.T, opts StoreOptions) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger:                 logger.Default.LogMode(logger.Silent),
			SkipDefaultTransaction: true,
		},
	)
	require.NoError(t, err)

	return NewGormStore(gormDB, opts), mock
}

func TestGormStoreFindAuthorityByName(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "local_authorities" WHERE name = \$1`).
		WithArgs("animals").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(7, "animals"))

	authority, err := store.FindAuthorityByName(context.Background(), "animals")
	require.NoError(t, err)
	assert.Equal(t, int64(7), authority.ID)
	assert.Equal(t, "animals", authority.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindAuthorityByNameNotFound(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "local_authorities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := store.FindAuthorityByName(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrAuthorityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindAuthorityByNameError(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "local_authorities"`).WillReturnError(sql.ErrConnDone)

	_, err := store.FindAuthorityByName(context.Background(), "animals")
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.False(t, errors.Is(err, ErrAuthorityNotFound))
}

func TestGormStoreCreateAuthority(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`INSERT INTO "local_authorities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	authority, err := store.CreateAuthority(context.Background(), "animals")
	require.NoError(t, err)
	assert.Equal(t, int64(3), authority.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreDeleteAuthority(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectExec(`DELETE FROM "local_authorities" WHERE name = \$1`).
		WithArgs("animals").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "local_authorities"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.DeleteAuthority(context.Background(), "animals"))
	assert.ErrorIs(t, store.DeleteAuthority(context.Background(), "animals"), ErrAuthorityNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindDomainTermScopes(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "domain_terms" WHERE term = \$1 AND model = \$2`).
		WithArgs("creator", "books").
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}).AddRow(5, "books", "creator"))
	mock.ExpectQuery(`SELECT \* FROM "domain_terms" WHERE term = \$1 AND model IS NULL`).
		WithArgs("creator").
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}))

	dt, err := store.FindDomainTerm(context.Background(), ForModel("books"), "creator")
	require.NoError(t, err)
	require.NotNil(t, dt.Model)
	assert.Equal(t, "books", *dt.Model)

	_, err = store.FindDomainTerm(context.Background(), AnyModel(), "creator")
	assert.ErrorIs(t, err, ErrDomainTermNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindAnyDomainTermPrefersModelAgnostic(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "domain_terms" WHERE term = \$1 ORDER BY model IS NOT NULL,id`).
		WithArgs("creator").
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}).AddRow(2, nil, "creator"))

	dt, err := store.FindAnyDomainTerm(context.Background(), "creator")
	require.NoError(t, err)
	assert.Nil(t, dt.Model)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindOrCreateDomainTerm(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "domain_terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}))
	mock.ExpectQuery(`INSERT INTO "domain_terms" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	dt, err := store.FindOrCreateDomainTerm(context.Background(), ForModel("books"), "creator")
	require.NoError(t, err)
	assert.Equal(t, int64(11), dt.ID)
	assert.Equal(t, "creator", dt.Term)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreFindOrCreateDomainTermLostRace(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "domain_terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}))
	mock.ExpectQuery(`INSERT INTO "domain_terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT \* FROM "domain_terms"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "term"}).AddRow(12, nil, "creator"))

	dt, err := store.FindOrCreateDomainTerm(context.Background(), AnyModel(), "creator")
	require.NoError(t, err)
	assert.Equal(t, int64(12), dt.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAttachAuthority(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectExec(`INSERT INTO "domain_terms_local_authorities" .* ON CONFLICT DO NOTHING`).
		WithArgs(int64(11), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "domain_terms_local_authorities"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	attached, err := store.AttachAuthority(context.Background(), 11, 3)
	require.NoError(t, err)
	assert.True(t, attached)

	attached, err = store.AttachAuthority(context.Background(), 11, 3)
	require.NoError(t, err)
	assert.False(t, attached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAuthorityIDs(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT .*local_authority_id.* FROM "domain_terms_local_authorities" WHERE domain_term_id = \$1`).
		WithArgs(int64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"local_authority_id"}).AddRow(3).AddRow(4))

	ids, err := store.AuthorityIDs(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSearchEntries(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT .* FROM "local_authority_entries" WHERE local_authority_id IN \(\$1,\$2\) AND lower\(label\) LIKE \$3 LIMIT 25`).
		WithArgs(int64(3), int64(4), `100\%%`).
		WillReturnRows(sqlmock.NewRows([]string{"uri", "label"}).AddRow("http://x/1", "100% Cats"))

	hits, err := store.SearchEntries(context.Background(), []int64{3, 4}, "100%", MaxResults)
	require.NoError(t, err)
	assert.Equal(t, []Hit{{URI: "http://x/1", Label: "100% Cats"}}, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSearchEntriesWithoutAuthorities(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	hits, err := store.SearchEntries(context.Background(), nil, "cat", MaxResults)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreSearchSubjects(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`SELECT \* FROM "subject_local_authority_entries" WHERE lower_label LIKE \$1 LIMIT 25`).
		WithArgs("cat%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "url", "label", "lower_label"}).
			AddRow(1, "http://id.loc.gov/1", "Cats", "cats"))

	hits, err := store.SearchSubjects(context.Background(), "cat", MaxResults)
	require.NoError(t, err)
	assert.Equal(t, []Hit{{URI: "http://id.loc.gov/1", Label: "Cats"}}, hits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStorePing(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreWriterStrategy(t *testing.T) {
	bulk, _ := newMockStore(t, StoreOptions{BulkInsert: true, BatchSize: 2})
	assert.IsType(t, &BatchInsert{}, bulk.Writer())

	sequential, _ := newMockStore(t, StoreOptions{})
	assert.IsType(t, &SequentialInsert{}, sequential.Writer())
}

func TestBatchInsertChunks(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{BulkInsert: true, BatchSize: 2})

	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	entries := []model.Entry{
		{AuthorityID: 1, URI: "u1", Label: "a"},
		{AuthorityID: 1, URI: "u2", Label: "b"},
		{AuthorityID: 1, URI: "u3", Label: "c"},
	}
	written, err := store.Writer().WriteEntries(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 3, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBatchInsertReportsWrittenOnFailure(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{BulkInsert: true, BatchSize: 2})

	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnError(sql.ErrConnDone)

	entries := make([]model.Entry, 3)
	written, err := store.Writer().WriteEntries(context.Background(), entries)
	require.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, 2, written)
	assert.Contains(t, err.Error(), "entries 2-2")
}

func TestSequentialInsertStopsAtFirstFailure(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "local_authority_entries"`).
		WillReturnError(sql.ErrConnDone)

	entries := []model.Entry{
		{AuthorityID: 1, URI: "u1", Label: "a"},
		{AuthorityID: 1, URI: "u2", Label: "b"},
		{AuthorityID: 1, URI: "u3", Label: "c"},
	}
	written, err := store.Writer().WriteEntries(context.Background(), entries)
	require.ErrorIs(t, err, sql.ErrConnDone)
	assert.Equal(t, 1, written)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreTransactionRollsBack(t *testing.T) {
	store, mock := newMockStore(t, StoreOptions{})

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "local_authorities"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := store.Transaction(context.Background(), func(tx Store) error {
		_, err := tx.CreateAuthority(context.Background(), "animals")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikePrefix(t *testing.T) {
	assert.Equal(t, "cat%", likePrefix("cat"))
	assert.Equal(t, `50\%%`, likePrefix("50%"))
	assert.Equal(t, `a\_b%`, likePrefix("a_b"))
	assert.Equal(t, `c:\\%`, likePrefix(`c:\`))
	assert.Equal(t, "%", likePrefix(""))
}
