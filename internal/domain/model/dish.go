package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// 選択肢（"Size: L" の L など）。extraは追加料金
type DishChoice struct {
	Name  string   `json:"name"`
	Extra *float64 `json:"extra,omitempty"`
}

// 料理のカスタマイズ項目（サイズ、トッピングなど）
type DishOption struct {
	Name    string       `json:"name"`
	Choices []DishChoice `json:"choices,omitempty"`
	Extra   *float64     `json:"extra,omitempty"`
}

// JSONカラムとして保存する
type DishOptions []DishOption

func (o DishOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *DishOptions) Scan(src interface{}) error {
	if src == nil {
		*o = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	default:
		return errors.New("unsupported type for DishOptions")
	}
}

type Dish struct {
	ID    int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string  `gorm:"type:varchar(255);not null" json:"name"`
	Price float64 `gorm:"not null" json:"price"`

	Photo       *string `gorm:"type:varchar(255)" json:"photo,omitempty"`
	Description *string `gorm:"type:varchar(100)" json:"description,omitempty"`

	//店舗削除時はメニューごと消す
	RestaurantID int64       `gorm:"not null;index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	Options DishOptions `gorm:"type:json" json:"options,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
