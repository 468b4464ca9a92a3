package repository

import (
	"app/internal/domain/model"
	"context"
)

// メール認証コードの永続化を約束
type VerificationRepository interface {
	//ユーザーの既存コードを置き換えて新規作成する
	Replace(ctx context.Context, v *model.Verification) error
	//コードから1件取得（user付き）
	FindByCode(ctx context.Context, code string) (*model.Verification, error)
	Delete(ctx context.Context, id int64) error
}
