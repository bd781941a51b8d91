package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockPostgresStore(t *testing.T, ttl time.Duration) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := NewPostgresStore(gdb, ttl)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, mock
}

func TestPostgresStore_Get(t *testing.T) {
	past := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	future := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	columns := []string{"key", "value", "expires_at", "updated_at"}

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		wantValue string
		wantFound bool
		wantErr   bool
	}{
		{
			name: "live entry",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
					WillReturnRows(sqlmock.NewRows(columns).AddRow("token", "abc", future, past))
			},
			wantValue: "abc",
			wantFound: true,
		},
		{
			name: "entry without expiry",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
					WillReturnRows(sqlmock.NewRows(columns).AddRow("token", "abc", nil, past))
			},
			wantValue: "abc",
			wantFound: true,
		},
		{
			name: "expired entry reads as absent",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
					WillReturnRows(sqlmock.NewRows(columns).AddRow("token", "abc", past, past))
			},
		},
		{
			name: "missing entry",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
					WillReturnRows(sqlmock.NewRows(columns))
			},
		},
		{
			name: "database error",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT \* FROM "kv_entries" WHERE key = \$1`).
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockPostgresStore(t, 0)
			tt.mockSetup(mock)

			value, found, err := store.Get(context.Background(), "token")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantValue, value)
				assert.Equal(t, tt.wantFound, found)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresStore_SetUpserts(t *testing.T) {
	store, mock := newMockPostgresStore(t, time.Hour)

	mock.ExpectExec(`INSERT INTO "kv_entries" .* ON CONFLICT \("key"\) DO UPDATE SET`).
		WithArgs("guestCart", `[{"productId":"p1","qty":1}]`, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Set(context.Background(), "guestCart", `[{"productId":"p1","qty":1}]`)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_DelUsesOneStatement(t *testing.T) {
	store, mock := newMockPostgresStore(t, 0)

	mock.ExpectExec(`DELETE FROM "kv_entries" WHERE key IN \(\$1,\$2,\$3\)`).
		WithArgs("token", "username", "balance").
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, store.Del(context.Background(), "token", "username", "balance"))
	require.NoError(t, store.Del(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PurgeExpired(t *testing.T) {
	store, mock := newMockPostgresStore(t, time.Hour)

	mock.ExpectExec(`DELETE FROM "kv_entries" WHERE expires_at IS NOT NULL AND expires_at <= \$1`).
		WithArgs(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)).
		WillReturnResult(sqlmock.NewResult(0, 4))

	purged, err := store.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}
