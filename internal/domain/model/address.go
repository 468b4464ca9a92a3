package model

import "time"

// 配達先住所（Clientが登録する）
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	Address string  `gorm:"type:varchar(255);not null" json:"address"`
	Lat     float64 `gorm:"type:double precision;not null" json:"lat"`
	Lng     float64 `gorm:"type:double precision;not null" json:"lng"`

	//現在選択中の住所か
	IsSelected bool `gorm:"not null;default:false" json:"is_selected"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
