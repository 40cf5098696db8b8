package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/models"
)

func (r *GormRepo) AddCartItem(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func cartLines(db *gorm.DB, userID uint) ([]models.CartLine, error) {
	lines := make([]models.CartLine, 0)
	err := db.Table("cart_items").
		Select("cart_items.id, cart_items.user_id, cart_items.product_id, products.name AS product_name, products.price AS product_price").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.id ASC").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// CartItemsFor returns the user's cart joined with product data. Rows whose
// product no longer exists are left out.
func (r *GormRepo) CartItemsFor(ctx context.Context, userID uint) ([]models.CartLine, error) {
	return cartLines(r.DB.WithContext(ctx), userID)
}

// RemoveOneCartItem deletes the oldest row matching (user, product).
func (r *GormRepo) RemoveOneCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Order("id ASC").
			First(&item).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Checkout sums the user's cart and deletes the summed rows in one
// transaction. Rows pointing at deleted products are dropped too; rows added
// after the cart was read are kept.
func (r *GormRepo) Checkout(ctx context.Context, userID uint) ([]models.CartLine, float64, error) {
	var (
		lines []models.CartLine
		total float64
	)
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		lines, err = cartLines(tx, userID)
		if err != nil {
			return err
		}
		ids := make([]uint, 0, len(lines))
		for _, l := range lines {
			total += l.ProductPrice
			ids = append(ids, l.ID)
		}
		if len(ids) > 0 {
			if err := tx.Where("id IN ?", ids).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}
		return tx.Where("user_id = ? AND NOT EXISTS (SELECT 1 FROM products WHERE products.id = cart_items.product_id)", userID).
			Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return lines, total, nil
}
