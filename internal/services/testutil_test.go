package services

import (
	"testing"

	"github.com/forge-app/forge-api/internal/database"
	"github.com/forge-app/forge-api/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.ConnectMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	return db
}

func createUser(t *testing.T, db *gorm.DB, level, xp int) models.User {
	t.Helper()
	user := models.User{Email: t.Name() + "@example.com", Level: level, XP: xp, TotalXP: xp}
	require.NoError(t, db.Create(&user).Error)
	return user
}
