package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time
}

type Product struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"type:varchar(200);not null;index"`
	SKU         null.String     `gorm:"column:sku;type:varchar(64);uniqueIndex"`
	Barcode     null.String     `gorm:"type:varchar(64);uniqueIndex"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CostPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	MinStock    int             `gorm:"not null;default:0"`
	Unit        string          `gorm:"type:varchar(20);not null;default:'pcs'"`
	Supplier    null.String     `gorm:"type:varchar(200)"`
	Description null.String     `gorm:"type:text"`
	Location    null.String     `gorm:"type:varchar(200)"`
	Status      string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Associations
	Category Category `gorm:"foreignKey:CategoryID"`
}
