package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openacademia/catalog-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func adminRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "full_name", "phone", "role", "state",
		"deactivated_at", "deactivated_by", "last_login", "created_at", "updated_at",
	}).AddRow("a1", "rector@example.com", "hash", "Rector", "", string(models.RoleRector), string(models.StateActive), nil, nil, now, now, now)
}

func TestAdminFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE LOWER(email) = LOWER($1) LIMIT 1")).
		WithArgs("rector@example.com").
		WillReturnRows(adminRows(now))

	admin, err := repo.FindByEmail(context.Background(), "rector@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a1", admin.ID)
	assert.Equal(t, models.RoleRector, admin.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(adminRows(now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM admins WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	admins, total, err := repo.List(context.Background(), models.AdminFilter{})
	require.NoError(t, err)
	assert.Len(t, admins, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminListStateFilter(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	state := models.StateSuspended
	mock.ExpectQuery(regexp.QuoteMeta("FROM admins WHERE 1=1 AND state = $1")).
		WithArgs(string(state)).
		WillReturnRows(adminRows(time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs(string(state)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, _, err := repo.List(context.Background(), models.AdminFilter{State: &state})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec("INSERT INTO admins").WillReturnResult(sqlmock.NewResult(1, 1))

	admin := &models.Admin{Email: "new@example.com", FullName: "New Admin", Role: models.RoleCoordinator}
	require.NoError(t, repo.Create(context.Background(), admin))
	assert.NotEmpty(t, admin.ID)
	assert.Equal(t, models.StateActive, admin.State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdatePersistsFieldsAndRoleTogether(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE admins SET email = ?, full_name = ?, phone = ?, role = ?, updated_at = ? WHERE id = ?")).
		WithArgs("renamed@example.com", "Renamed", "", string(models.RoleRector), sqlmock.AnyArg(), "a1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	admin := &models.Admin{ID: "a1", Email: "renamed@example.com", FullName: "Renamed", Role: models.RoleRector}
	require.NoError(t, repo.Update(context.Background(), admin))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStateSuspendCascades(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM career_coordinators WHERE admin_id = $1")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.UpdateState(context.Background(), "a1", models.StateSuspended, "actor")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStateReactivateSkipsCascade(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.UpdateState(context.Background(), "a1", models.StateActive, "actor")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUpdateStateAlreadyApplied(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.UpdateState(context.Background(), "a1", models.StateSuspended, "actor")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSoftDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM career_coordinators").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SoftDelete(context.Background(), "a1", "actor"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSoftDeleteIdempotent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.SoftDelete(context.Background(), "a1", "actor")
	require.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminSoftDeleteRollsBackOnCascadeFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAdminRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admins SET state").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM career_coordinators").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.SoftDelete(context.Background(), "a1", "actor")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
