package membership

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type favoritePair struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint
	RecipeID uint
}

func (favoritePair) TableName() string { return "favorite_recipes" }

func newMockStore(t *testing.T) (*GormStore[favoritePair], sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := NewGormStore(db, "user_id", "recipe_id", func(owner, target uint) favoritePair {
		return favoritePair{UserID: owner, RecipeID: target}
	})
	return store, mock
}

func TestGormStoreExists(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "favorite_recipes" WHERE user_id = $1 AND recipe_id = $2`)).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := store.Exists(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreAdd(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "favorite_recipes" ("user_id","recipe_id") VALUES ($1,$2) RETURNING "id"`)).
		WithArgs(1, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectCommit()

	require.NoError(t, store.Add(context.Background(), 1, 10))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreRemoveReportsMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "favorite_recipes" WHERE user_id = $1 AND recipe_id = $2`)).
		WithArgs(1, 10).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := store.Remove(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStoreTargetsOf(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .*recipe_id.* FROM "favorite_recipes" WHERE user_id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"recipe_id"}).AddRow(3).AddRow(7))

	ids, err := store.TargetsOf(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 7}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}
