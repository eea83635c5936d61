package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func assignID(id *string) {
	if *id == "" {
		*id = uuid.New().String()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error         { assignID(&u.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (i *ProductImage) BeforeCreate(*gorm.DB) error { assignID(&i.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error       { assignID(&r.ID); return nil }
func (w *Warehouse) BeforeCreate(*gorm.DB) error    { assignID(&w.ID); return nil }
func (i *Inventory) BeforeCreate(*gorm.DB) error    { assignID(&i.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error     { assignID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { assignID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { assignID(&i.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
