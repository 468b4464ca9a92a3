package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// 注文時に客が選んだオプション。choiceは選択肢名
type OrderItemOption struct {
	Name   string  `json:"name"`
	Choice *string `json:"choice,omitempty"`
}

type OrderItemOptions []OrderItemOption

func (o OrderItemOptions) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	return json.Marshal(o)
}

func (o *OrderItemOptions) Scan(src interface{}) error {
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
		return errors.New("unsupported type for OrderItemOptions")
	}
}

// 注文の明細1件。注文作成時にのみ作られ、以後編集されない
type OrderItem struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	//料理削除時は明細ごと消える
	DishID *int64 `gorm:"index" json:"dish_id"`
	Dish   *Dish  `gorm:"constraint:OnDelete:CASCADE" json:"dish,omitempty"`

	Options OrderItemOptions `gorm:"type:json" json:"options,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
