package model

import "time"

type Restaurant struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(255);not null;index" json:"name"`
	CoverImg string `gorm:"type:varchar(255);not null" json:"cover_img"`
	Address  string `gorm:"type:varchar(255);not null" json:"address"`

	//店舗の位置。近隣検索はPostGISのgeographyカラムを別途使う
	Lat float64 `gorm:"type:double precision;not null" json:"lat"`
	Lng float64 `gorm:"type:double precision;not null" json:"lng"`

	//カテゴリ削除時はSET NULL
	CategoryID *int64    `gorm:"index" json:"category_id"`
	Category   *Category `gorm:"constraint:OnDelete:SET NULL" json:"category,omitempty"`

	//オーナー削除時は店舗ごと消す
	OwnerID int64 `gorm:"not null;index" json:"owner_id"`
	Owner   User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Menu []Dish `gorm:"foreignKey:RestaurantID" json:"menu,omitempty"`

	//プロモーション中か（支払いで7日間有効になる）
	IsPromoted    bool       `gorm:"not null;default:false" json:"is_promoted"`
	PromotedUntil *time.Time `json:"promoted_until,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
