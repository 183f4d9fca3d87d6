package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type User struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Email            string      `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name             string      `gorm:"type:varchar(100);not null"`
	PasswordHash     string      `gorm:"type:varchar(255);not null"`
	Role             string      `gorm:"type:varchar(20);not null;default:'USER'"`
	Phone            null.String `gorm:"type:varchar(32)"`
	Avatar           null.String `gorm:"type:text"`
	EmailVerified    bool        `gorm:"not null;default:false"`
	OrderAlerts      bool        `gorm:"not null;default:true"`
	LowStockWarnings bool        `gorm:"not null;default:true"`
	WeeklyReports    bool        `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
