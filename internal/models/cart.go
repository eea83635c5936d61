package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is one pending line in a user's cart. UnitPrice is the product
// price at the moment the line was added.
type CartItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string          `json:"user_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36);not null"`
	ProductID string          `json:"product_id" gorm:"uniqueIndex:idx_cart_user_product;type:varchar(36);not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// SubTotal returns quantity × unit price.
func (c CartItem) SubTotal() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
