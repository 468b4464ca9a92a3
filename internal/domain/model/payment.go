package model

import "time"

// 店舗プロモーションの支払い記録
type Payment struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	TransactionID string `gorm:"type:varchar(255);not null" json:"transaction_id"`

	UserID int64 `gorm:"not null;index" json:"user_id"`
	User   User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	RestaurantID int64      `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   Restaurant `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
