package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"
)

type Customer struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name      string      `gorm:"type:varchar(200);not null"`
	Email     null.String `gorm:"type:varchar(255)"`
	Phone     null.String `gorm:"type:varchar(32)"`
	CreatedAt time.Time
}

type Order struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNo    string          `gorm:"type:varchar(40);uniqueIndex;not null"`
	CustomerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status     string          `gorm:"type:varchar(20);not null;index"`
	CreatedAt  time.Time       `gorm:"index"`
	UpdatedAt  time.Time

	// Associations
	Customer Customer `gorm:"foreignKey:CustomerID"`
}
