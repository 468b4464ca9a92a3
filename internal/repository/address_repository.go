package repository

import (
	"app/internal/domain/model"
	"context"
)

// 配達先住所(Address)を保存・取得する窓口
type AddressRepository interface {
	Create(ctx context.Context, addr *model.Address) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Address, error)
	FindByID(ctx context.Context, addressID int64) (model.Address, error)
	//選択中の住所を切り替える（既存の選択は外す）
	Select(ctx context.Context, userID int64, addressID int64) error
	Delete(ctx context.Context, addressID int64) error
}
