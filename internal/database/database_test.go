package database

import (
	"bytes"
	"context"
	"testing"

	"knowyourplate/config"
	"knowyourplate/internal/domain"
	"knowyourplate/internal/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestDialector(t *testing.T) {
	d, err := Dialector(&config.DatabaseConfig{Driver: "mysql", DSN: "u:p@tcp(localhost:3306)/db"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector(&config.DatabaseConfig{Driver: "postgres", DSN: "host=localhost"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = Dialector(&config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err)
}

func TestDefaultQuestions(t *testing.T) {
	qs := DefaultQuestions()
	require.Len(t, qs, 17)

	seen := map[int]bool{}
	for i, q := range qs {
		assert.Equal(t, i+1, q.OrderIndex)
		assert.True(t, q.IsActive)
		assert.True(t, domain.IsKnownQuestionType(q.Type), q.Text)
		assert.False(t, seen[q.OrderIndex])
		seen[q.OrderIndex] = true

		if q.Type == domain.QuestionTypeText {
			assert.Empty(t, q.Options)
		} else {
			assert.NotEmpty(t, q.Options)
		}
		if q.Type == domain.QuestionTypeMultipleChoiceLimited {
			require.NotNil(t, q.RequiredSelections)
			assert.LessOrEqual(t, *q.RequiredSelections, len(q.Options))
		} else {
			assert.Nil(t, q.RequiredSelections)
		}
	}

	assert.Equal(t, 4, *qs[12].RequiredSelections)
	assert.Equal(t, 3, *qs[13].RequiredSelections)
}

func TestSeedQuestions_SkipsWhenPopulated(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `survey_questions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := SeedQuestions(context.Background(), db)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedQuestions_InsertsDefaults(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `survey_questions`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `survey_questions`").WillReturnResult(sqlmock.NewResult(1, 17))
	mock.ExpectCommit()

	n, err := SeedQuestions(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, 17, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdmin_SkipsWhenAdminExists(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := SeedAdmin(context.Background(), db, &config.AdminConfig{Email: "admin@example.com"}, logger.Discard())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSeedAdmin_GeneratesPassword(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE is_admin = \\?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?").
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	var buf bytes.Buffer
	log := logger.NewWithOutput("test", "info", &buf)
	err := SeedAdmin(context.Background(), db, &config.AdminConfig{Name: "Admin", Email: "admin@example.com"}, log)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), `"level":"warning"`)
	assert.Contains(t, buf.String(), `"password":"`)
}

func TestSeedAdmin_EmailTakenByUser(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE is_admin = \\?").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?").
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	var buf bytes.Buffer
	log := logger.NewWithOutput("test", "info", &buf)
	err := SeedAdmin(context.Background(), db, &config.AdminConfig{Name: "Admin", Email: "admin@example.com"}, log)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), "ADMIN_EMAIL")
	assert.NotContains(t, buf.String(), `"password"`)
}
