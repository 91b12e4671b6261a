package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/booking"
	"github.com/wms/backend/internal/domain/shared"
)

func TestGormSettingsRepository(t *testing.T) {
	t.Run("loads the stored tolerance", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(db)

		rows := sqlmock.NewRows([]string{"id", "percentage", "updated_at"}).
			AddRow(1, 15, time.Now())
		mock.ExpectQuery(`SELECT \* FROM "tolerance_settings" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(settingsRowID, 1).
			WillReturnRows(rows)

		settings, err := repo.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 15, settings.Percentage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no row exists", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "tolerance_settings"`).
			WithArgs(settingsRowID, 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "percentage", "updated_at"}))

		_, err := repo.Load(context.Background())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("upserts the singleton row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSettingsRepository(db)

		mock.ExpectQuery(`INSERT INTO "tolerance_settings" .* ON CONFLICT \("id"\) DO UPDATE`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(settingsRowID))

		settings, err := booking.NewToleranceSettings(25)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), settings))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBinTareRepository(t *testing.T) {
	t.Run("returns the registered tare", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBinTareRepository(db)

		rows := sqlmock.NewRows([]string{"id", "created_at", "updated_at", "bin_code", "tare_weight"}).
			AddRow(uuid.New(), time.Now(), time.Now(), "BIN001", "1.235")
		mock.ExpectQuery(`SELECT \* FROM "bin_tares" WHERE bin_code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("BIN001", 1).
			WillReturnRows(rows)

		tare, ok, err := repo.RegisteredTare(context.Background(), "BIN001")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.True(t, tare.Equal(decimal.RequireFromString("1.235")))
	})

	t.Run("reports an unknown bin without error", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBinTareRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "bin_tares"`).
			WithArgs("BIN404", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at", "bin_code", "tare_weight"}))

		_, ok, err := repo.RegisteredTare(context.Background(), "BIN404")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("upserts a tare by bin code", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBinTareRepository(db)

		mock.ExpectExec(`INSERT INTO "bin_tares" .* ON CONFLICT \("bin_code"\) DO UPDATE`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.Register(context.Background(), "BIN001", decimal.RequireFromString("0.85"))
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects a non-positive tare", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormBinTareRepository(db)

		err := repo.Register(context.Background(), "BIN001", decimal.Zero)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TARE", domainErr.Code)
	})
}
