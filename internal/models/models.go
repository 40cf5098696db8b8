package models

type User struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"unique;not null;size:80" json:"username"`
	Password string `gorm:"not null;size:80" json:"-"`
}

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null;size:120" json:"name"`
	Price       float64 `gorm:"not null" json:"price"`
	Description string  `gorm:"type:text" json:"description"`
}

// CartItem is one unit of a product in a user's cart. No foreign keys:
// deleting a product leaves its cart rows in place.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"index;not null" json:"user_id"`
	ProductID uint `gorm:"not null" json:"product_id"`
}

// CartLine is a cart item joined with the product it points at.
type CartLine struct {
	ID           uint    `json:"id"`
	UserID       uint    `json:"user_id"`
	ProductID    uint    `json:"product_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
}

type Session struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint   `gorm:"index;not null" json:"user_id"`
	ExpiresAt int64  `gorm:"not null" json:"expires_at"`
}

func All() []any {
	return []any{&User{}, &Product{}, &CartItem{}, &Session{}}
}
