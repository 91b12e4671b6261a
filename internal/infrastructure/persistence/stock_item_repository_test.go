package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM handle backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func stockItemColumns() []string {
	return []string{
		"id", "created_at", "updated_at",
		"article_old", "article_new", "description",
		"quantity", "slot_codes", "box_number", "order_number",
	}
}

func TestGormStockItemRepository_FetchByBox(t *testing.T) {
	t.Run("maps rows to domain items", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows(stockItemColumns()).
			AddRow(uuid.New(), now, now, "100234", "A-100234", "Hinge 40mm",
				int64(120), "SRC-01,SRC-02", "BOX-7", "").
			AddRow(uuid.New(), now, now, "100567", "A-100567", "Bracket",
				int64(40), "SRC-03", "BOX-7", "")

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE box_number = \$1 ORDER BY article_old ASC`).
			WithArgs("BOX-7").
			WillReturnRows(rows)

		items, err := repo.FetchByBox(context.Background(), "BOX-7")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "100234", items[0].ArticleOld)
		assert.Equal(t, int64(120), items[0].Quantity)
		assert.Equal(t, []string{"SRC-01", "SRC-02"}, items[0].SlotCodes)
		assert.Equal(t, "SRC-01", items[0].SourceSlot())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns an empty slice when the box is unknown", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE box_number = \$1`).
			WithArgs("BOX-404").
			WillReturnRows(sqlmock.NewRows(stockItemColumns()))

		items, err := repo.FetchByBox(context.Background(), "BOX-404")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestGormStockItemRepository_FetchByOrder(t *testing.T) {
	t.Run("queries by order number", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockItemRepository(db)

		now := time.Now()
		rows := sqlmock.NewRows(stockItemColumns()).
			AddRow(uuid.New(), now, now, "100890", "A-100890", "Rail",
				int64(12), "SRC-09", "", "ORD-55")

		mock.ExpectQuery(`SELECT \* FROM "stock_items" WHERE order_number = \$1 ORDER BY article_old ASC`).
			WithArgs("ORD-55").
			WillReturnRows(rows)

		items, err := repo.FetchByOrder(context.Background(), "ORD-55")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "ORD-55", items[0].OrderNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
