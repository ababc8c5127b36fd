package cli

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockOpener(t *testing.T) (func() (*sql.DB, error), sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()
	return func() (*sql.DB, error) { return db, nil }, mock
}

func TestRunMigrate_Up(t *testing.T) {
	open, mock := mockOpener(t)
	cmd, buf := newTestCmd()
	cmd.SetContext(context.Background())

	var called string
	up := func(ctx context.Context, db *sql.DB) error { called = "up"; return nil }
	status := func(ctx context.Context, db *sql.DB) error { called = "status"; return nil }

	require.NoError(t, runMigrate(cmd, "up", open, up, status))
	assert.Equal(t, "up", called)
	assert.Contains(t, plain(buf), "migrations applied")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrate_Status(t *testing.T) {
	open, mock := mockOpener(t)
	cmd, buf := newTestCmd()
	cmd.SetContext(context.Background())

	var called string
	up := func(ctx context.Context, db *sql.DB) error { called = "up"; return nil }
	status := func(ctx context.Context, db *sql.DB) error { called = "status"; return nil }

	require.NoError(t, runMigrate(cmd, "status", open, up, status))
	assert.Equal(t, "status", called)
	assert.Empty(t, buf.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrate_Errors(t *testing.T) {
	cmd, _ := newTestCmd()
	cmd.SetContext(context.Background())
	noop := func(ctx context.Context, db *sql.DB) error { return nil }

	err := runMigrate(cmd, "down", nil, noop, noop)
	assert.EqualError(t, err, `unknown migrate action "down"`)

	failOpen := func() (*sql.DB, error) { return nil, errors.New("dial tcp: refused") }
	err = runMigrate(cmd, "up", failOpen, noop, noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect: dial tcp")

	open, _ := mockOpener(t)
	boom := func(ctx context.Context, db *sql.DB) error { return errors.New("goose up: boom") }
	err = runMigrate(cmd, "up", open, boom, noop)
	assert.EqualError(t, err, "goose up: boom")
}
