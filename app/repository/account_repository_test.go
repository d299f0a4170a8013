package repository

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return db, mock
}

func TestAccountRepositoryCommitSyncResult(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `provider_accounts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CommitSyncResult(7, 12.5, 100, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryRotateCredential(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `provider_accounts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.RotateCredential(7, "new-token"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "provider", "email", "active", "auth_failed"}).
		AddRow(1, 1, "bitlaunch", "a@x.com", true, false).
		AddRow(2, 1, "cloudfly", "b@x.com", true, true)
	mock.ExpectQuery("SELECT \\* FROM `provider_accounts` WHERE active = \\?").
		WithArgs(true).
		WillReturnRows(rows)

	accounts, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "bitlaunch", accounts[0].Provider)
	assert.True(t, accounts[1].AuthFailed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAccountRepositoryMarkAuthFailed(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAccountRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `provider_accounts` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.MarkAuthFailed(3, true))
	assert.NoError(t, mock.ExpectationsWereMet())
}
