package model

import "time"

type UserRole string

const (
	RoleClient   UserRole = "Client"
	RoleOwner    UserRole = "Owner"
	RoleDelivery UserRole = "Delivery"
)

type User struct {
	ID    int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`

	//bcryptハッシュ。レスポンスには出さない
	Password string `gorm:"column:password;not null" json:"-"`

	Role UserRole `gorm:"type:varchar(20);not null" json:"role"`

	//メール認証済みか
	Verified bool `gorm:"not null;default:false" json:"verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
