package model

import "time"

type Category struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	CoverImg string `gorm:"type:varchar(255)" json:"cover_img"`

	//URL用の一意なスラッグ（"Fast Food" -> "fast-food"）
	Slug string `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
