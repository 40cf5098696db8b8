package repo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/db"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	gdb, err := db.Open(context.Background(), db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	return New(gdb)
}

func ptr[T any](v T) *T { return &v }

func TestUsers(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	u := &models.User{Username: "alice", Password: "pw"}
	require.NoError(t, r.CreateUserIfNotExists(ctx, u))
	require.NotZero(t, u.ID)

	err := r.CreateUserIfNotExists(ctx, &models.User{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, ErrUserAlreadyExist)

	got, err := r.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "pw", got.Password)

	ok, err := r.UserExists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.GetUserByUsername(ctx, "bob")
	assert.True(t, IsNotFound(err))
	_, err = r.GetUserByID(ctx, 999)
	assert.True(t, IsNotFound(err))
}

func TestProducts_CRUD(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	list, err := r.ListProducts(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	p := &models.Product{Name: "Widget", Price: 9.99}
	require.NoError(t, r.CreateProduct(ctx, p))

	patched, err := r.PatchProduct(ctx, transport.PatchProductRequest{Price: ptr(5.0)}, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", patched.Name)
	assert.Equal(t, 5.0, patched.Price)
	assert.Equal(t, "", patched.Description)

	_, err = r.PatchProduct(ctx, transport.PatchProductRequest{Name: ptr("x")}, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, r.DeleteProduct(ctx, p.ID))
	assert.ErrorIs(t, r.DeleteProduct(ctx, p.ID), gorm.ErrRecordNotFound)

	_, err = r.GetProduct(ctx, p.ID)
	assert.True(t, IsNotFound(err))
}

func TestSearchProducts(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	products := []models.Product{
		{Name: "Red Widget", Price: 1},
		{Name: "Gadget", Price: 2, Description: "pairs with a widget"},
		{Name: "100% cotton", Price: 3},
	}
	for i := range products {
		require.NoError(t, r.CreateProduct(ctx, &products[i]))
	}

	got, err := r.SearchProducts(ctx, "WIDGET")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Red Widget", got[0].Name)
	assert.Equal(t, "Gadget", got[1].Name)

	got, err = r.SearchProducts(ctx, "0%")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = r.SearchProducts(ctx, "nothing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCart_DuplicatesRemoveAndCheckout(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	a := &models.Product{Name: "A", Price: 9.99}
	b := &models.Product{Name: "B", Price: 5.00}
	require.NoError(t, r.CreateProduct(ctx, a))
	require.NoError(t, r.CreateProduct(ctx, b))

	const user = 1
	for _, pid := range []uint{a.ID, a.ID, b.ID} {
		require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: user, ProductID: pid}))
	}
	require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: 2, ProductID: a.ID}))

	removed, err := r.RemoveOneCartItem(ctx, user, a.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed.ID)

	_, err = r.RemoveOneCartItem(ctx, user, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	lines, err := r.CartItemsFor(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "A", lines[0].ProductName)
	assert.Equal(t, 9.99, lines[0].ProductPrice)
	assert.Equal(t, "B", lines[1].ProductName)

	_, total, err := r.Checkout(ctx, user)
	require.NoError(t, err)
	assert.InDelta(t, 14.99, total, 1e-9)

	lines, err = r.CartItemsFor(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, lines)

	other, err := r.CartItemsFor(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestCart_OrphanedItems(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := &models.Product{Name: "Gone", Price: 3}
	require.NoError(t, r.CreateProduct(ctx, p))
	require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: 1, ProductID: p.ID}))
	require.NoError(t, r.DeleteProduct(ctx, p.ID))

	lines, err := r.CartItemsFor(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, total, err := r.Checkout(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, total)

	var n int64
	require.NoError(t, r.DB.Model(&models.CartItem{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCart_CheckoutKeepsRowsAddedAfterRead(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	p := &models.Product{Name: "Widget", Price: 4}
	require.NoError(t, r.CreateProduct(ctx, p))
	require.NoError(t, r.AddCartItem(ctx, &models.CartItem{UserID: 1, ProductID: p.ID}))

	// Insert a row between the cart read and the delete, on the same transaction.
	var late models.CartItem
	fired := false
	err := r.DB.Callback().Delete().Before("gorm:delete").Register("test:late_add", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "cart_items" {
			return
		}
		fired = true
		late = models.CartItem{UserID: 1, ProductID: p.ID}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&late).Error; err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)

	lines, total, err := r.Checkout(ctx, 1)
	require.NoError(t, err)
	require.True(t, fired)
	assert.Len(t, lines, 1)
	assert.Equal(t, 4.0, total)

	left, err := r.CartItemsFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, late.ID, left[0].ID)
}
