package events

import (
	"context"

	"app/internal/domain/model"
)

// 配信先チャンネル。自由な文字列は使わない
type Topic string

const (
	//店舗オーナー向け：新しいPending注文
	TopicPendingOrders Topic = "orders.pending"
	//ドライバー向け：調理済みでピックアップ待ちの注文
	TopicCookedOrders Topic = "orders.cooked"
	//注文の当事者向け：ステータス更新全般
	TopicOrderUpdates Topic = "orders.updates"
)

// TopicPendingOrdersのペイロード。ownerIdで購読者を絞り込む
type PendingOrderPayload struct {
	Order   model.Order `json:"order"`
	OwnerID int64       `json:"owner_id"`
}

type CookedOrderPayload struct {
	CookedOrders model.Order `json:"cooked_orders"`
}

type OrderUpdatesPayload struct {
	Order model.Order `json:"order"`
}

// 注文のライフサイクルイベントを購読レイヤーへ流す約束。
// publishは投げっぱなしで、失敗してもDB書き込みは巻き戻さない
type Publisher interface {
	Publish(ctx context.Context, topic Topic, payload interface{}) error
}

// テストやローカルで使う何もしない実装
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic Topic, payload interface{}) error {
	return nil
}
