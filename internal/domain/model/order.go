package model

import "time"

type OrderStatus string

// 注文のライフサイクル。
// Pending -> Cooking -> Cooked -> PickedUp -> Delivered
const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCooking   OrderStatus = "Cooking"
	OrderStatusCooked    OrderStatus = "Cooked"
	OrderStatusPickedUp  OrderStatus = "PickedUp"
	OrderStatusDelivered OrderStatus = "Delivered"
)

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//注文者。ユーザー削除時はSET NULL
	CustomerID *int64 `gorm:"index" json:"customer_id"`
	Customer   *User  `gorm:"foreignKey:CustomerID;constraint:OnDelete:SET NULL" json:"customer,omitempty"`

	//配達ドライバー。割り当てまではnull
	DriverID *int64 `gorm:"index" json:"driver_id"`
	Driver   *User  `gorm:"foreignKey:DriverID;constraint:OnDelete:SET NULL" json:"driver,omitempty"`

	//店舗削除時はSET NULL
	RestaurantID *int64      `gorm:"index" json:"restaurant_id"`
	Restaurant   *Restaurant `gorm:"constraint:OnDelete:SET NULL" json:"restaurant,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`

	//注文時点の料理の基本価格の合計
	Total float64 `gorm:"not null" json:"total"`

	Status OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
