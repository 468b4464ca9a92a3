package model

import "time"

// メール認証コード。ユーザーごとに1件
type Verification struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Code string `gorm:"type:varchar(64);not null;uniqueIndex" json:"code"`

	UserID int64 `gorm:"not null;uniqueIndex" json:"user_id"`
	User   User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
