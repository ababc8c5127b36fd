package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestFindByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password", "daily_calorie_goal", "created_at", "updated_at"}).
		AddRow("u1", "a@example.com", "hash", 1800, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("a@example.com", sqlmock.AnyArg()).
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, 1800, user.DailyCalorieGoal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFoundReturnsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE id = $1`)).
		WithArgs("missing", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByID(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRefreshToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "refresh_tokens" WHERE token = $1`)).
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.DeleteRefreshToken(context.Background(), "tok"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTokens_EmptyIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceTokenRepository(db)

	require.NoError(t, repo.DeleteTokens(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTokensByUserID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDeviceTokenRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "device_tokens" WHERE user_id = $1`)).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "device_info"}).
			AddRow("d1", "u1", "tok-a", "Chrome").
			AddRow("d2", "u1", "tok-b", "Android"))

	tokens, err := repo.GetTokensByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, "tok-b", tokens[1].Token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret1", hash))
	assert.False(t, CheckPasswordHash("secret2", hash))
}
