package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products. Category ids are sequential integers.
type Category struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string          `json:"description" gorm:"type:varchar(500)"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"index;not null"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Images      []ProductImage  `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductImage is an image URL attached to a product.
type ProductImage struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID    string    `json:"product_id" gorm:"index;type:varchar(36);not null"`
	Image        string    `json:"image" gorm:"not null"`
	PrimaryImage bool      `json:"primary_image" gorm:"default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Review is a user's rating of a product.
type Review struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID     string    `json:"product_id" gorm:"index;type:varchar(36);not null"`
	ReviewerID    string    `json:"reviewer_id" gorm:"index;type:varchar(36);not null"`
	Rating        int       `json:"rating" gorm:"not null"`
	ReviewMessage string    `json:"review_message"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Warehouse is a physical stock location.
type Warehouse struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(100);not null"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Inventory is the on-hand quantity of one product in one warehouse.
type Inventory struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	ProductID   string    `json:"product_id" gorm:"uniqueIndex:idx_inventory_product_warehouse;type:varchar(36);not null"`
	WarehouseID string    `json:"warehouse_id" gorm:"uniqueIndex:idx_inventory_product_warehouse;type:varchar(36);not null"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
