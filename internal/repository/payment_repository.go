package repository

import (
	"app/internal/domain/model"
	"context"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) error
	ListByUser(ctx context.Context, userID int64) ([]model.Payment, error)
}
