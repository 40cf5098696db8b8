package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"", DriverSQLite, DriverPostgres, DriverPQ} {
		d, err := Dialector(driver, "dsn")
		require.NoError(t, err, driver)
		assert.NotNil(t, d)
	}

	_, err := Dialector("mysql", "dsn")
	assert.Error(t, err)
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	for _, m := range models.All() {
		assert.True(t, db.Migrator().HasTable(m))
	}

	p := models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, db.Create(&p).Error)
	assert.NotZero(t, p.ID)
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), DriverSQLite, "")
	assert.Error(t, err)
}

func TestOpen_OrphanedCartItemsAllowed(t *testing.T) {
	db, err := Open(context.Background(), DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, db.Create(&models.CartItem{UserID: 7, ProductID: 99}).Error)

	var n int64
	require.NoError(t, db.Model(&models.CartItem{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}
