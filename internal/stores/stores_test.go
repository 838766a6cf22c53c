package stores

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/dariovidovic/NWP-LV7/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:stores_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Project{}, &models.ProjectMembership{}))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, first, last, email string) *models.User {
	t.Helper()

	user := models.User{FirstName: first, LastName: last, Email: email, PasswordHash: "hash"}
	require.NoError(t, db.Create(&user).Error)
	return &user
}
