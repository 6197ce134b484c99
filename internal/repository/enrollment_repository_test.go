package repository

import (
	"skillbridge_backend/internal/model"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openStoreDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), name)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Enrollment{},
		&model.ModuleCompletion{},
		&model.VideoWatch{},
		&model.QuizScoreRecord{},
	))
	return db
}

func newEnrollment(email string, programID uint) *model.Enrollment {
	return &model.Enrollment{
		UserEmail:      email,
		ProgramID:      programID,
		ProgramTitle:   "Go Backend Track",
		EnrollmentDate: time.Now(),
		Status:         model.StatusEnrolled,
	}
}

func TestCreateAndFindRoundTrip(t *testing.T) {
	repo := NewEnrollmentRepository(openStoreDB(t, "primary.db"), nil)

	e := newEnrollment("learner@example.com", 1)
	require.NoError(t, repo.Create(e))
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Degraded)

	found, err := repo.Find("learner@example.com", 1)
	require.NoError(t, err)
	assert.Equal(t, e.ID, found.ID)
	assert.False(t, found.Degraded)
}

func TestCreateDuplicateIsNotAnOutage(t *testing.T) {
	primary := openStoreDB(t, "primary.db")
	fallback := openStoreDB(t, "fallback.db")
	repo := NewEnrollmentRepository(primary, fallback)

	require.NoError(t, repo.Create(newEnrollment("learner@example.com", 1)))

	// A unique-key conflict must surface, not slide into the fallback store.
	err := repo.Create(newEnrollment("learner@example.com", 1))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	var count int64
	require.NoError(t, fallback.Model(&model.Enrollment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateFallsBackWhenPrimaryIsDown(t *testing.T) {
	primary := openStoreDB(t, "primary.db")
	fallback := openStoreDB(t, "fallback.db")
	repo := NewEnrollmentRepository(primary, fallback)

	sqlDB, err := primary.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	e := newEnrollment("learner@example.com", 1)
	require.NoError(t, repo.Create(e))
	assert.True(t, e.Degraded)
	assert.NotEmpty(t, e.ID)

	var count int64
	require.NoError(t, fallback.Model(&model.Enrollment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The degraded record stays visible through Find.
	found, err := repo.Find("learner@example.com", 1)
	require.NoError(t, err)
	assert.True(t, found.Degraded)
	assert.Equal(t, e.ID, found.ID)
}

func TestCreateWithoutFallbackSurfacesTheError(t *testing.T) {
	primary := openStoreDB(t, "primary.db")
	repo := NewEnrollmentRepository(primary, nil)

	sqlDB, err := primary.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, repo.Create(newEnrollment("learner@example.com", 1)))
}

func TestReconcileMovesFallbackRows(t *testing.T) {
	primary := openStoreDB(t, "primary.db")
	fallback := openStoreDB(t, "fallback.db")
	repo := NewEnrollmentRepository(primary, fallback)

	// One row already enrolled in the primary, one written during an outage,
	// and one fallback duplicate of the primary row.
	require.NoError(t, primary.Create(newEnrollment("existing@example.com", 1)).Error)
	require.NoError(t, fallback.Create(newEnrollment("pending@example.com", 1)).Error)
	require.NoError(t, fallback.Create(newEnrollment("existing@example.com", 1)).Error)

	moved, err := repo.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	var primaryCount, fallbackCount int64
	require.NoError(t, primary.Model(&model.Enrollment{}).Count(&primaryCount).Error)
	require.NoError(t, fallback.Model(&model.Enrollment{}).Count(&fallbackCount).Error)
	assert.EqualValues(t, 2, primaryCount)
	assert.Zero(t, fallbackCount)

	found, err := repo.Find("pending@example.com", 1)
	require.NoError(t, err)
	assert.False(t, found.Degraded)

	// Nothing left to move.
	moved, err = repo.Reconcile()
	require.NoError(t, err)
	assert.Zero(t, moved)
}

func TestAddModuleCompletionHasSetSemantics(t *testing.T) {
	repo := NewEnrollmentRepository(openStoreDB(t, "primary.db"), nil)

	e := newEnrollment("learner@example.com", 1)
	require.NoError(t, repo.Create(e))

	added, err := repo.AddModuleCompletion(e.ID, 10)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddModuleCompletion(e.ID, 10)
	require.NoError(t, err)
	assert.False(t, added)

	count, err := repo.CountModuleCompletions(e.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAddVideoWatchHasSetSemantics(t *testing.T) {
	repo := NewEnrollmentRepository(openStoreDB(t, "primary.db"), nil)

	e := newEnrollment("learner@example.com", 1)
	require.NoError(t, repo.Create(e))

	added, err := repo.AddVideoWatch(e.ID, 10, 100)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = repo.AddVideoWatch(e.ID, 10, 100)
	require.NoError(t, err)
	assert.False(t, added)

	// A different video in the same module is a fresh row.
	added, err = repo.AddVideoWatch(e.ID, 10, 101)
	require.NoError(t, err)
	assert.True(t, added)
}
