package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// プロモーションの有効期間
const promotionPeriod = 7 * 24 * time.Hour

// PaymentUsecase は店舗プロモーション支払いの業務ロジックです。
type PaymentUsecase struct {
	payments    repo.PaymentRepository
	restaurants repo.RestaurantRepository
}

func NewPaymentUsecase(
	payments repo.PaymentRepository,
	restaurants repo.RestaurantRepository,
) *PaymentUsecase {
	return &PaymentUsecase{
		payments:    payments,
		restaurants: restaurants,
	}
}

type CreatePaymentInput struct {
	TransactionID string
	RestaurantID  int64
}

// CreatePayment は支払いを記録し、店舗を7日間プロモーション状態にする
func (u *PaymentUsecase) CreatePayment(ctx context.Context, owner *model.User, in CreatePaymentInput) error {
	restaurant, err := u.restaurants.FindByID(ctx, in.RestaurantID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "Restaurant not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not create payment")
	}
	if restaurant.OwnerID != owner.ID {
		return NewHTTPError(http.StatusForbidden, "You are not allowed to do this")
	}

	until := time.Now().Add(promotionPeriod)
	restaurant.IsPromoted = true
	restaurant.PromotedUntil = &until
	if err := u.restaurants.Update(ctx, &restaurant); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not create payment")
	}

	payment := model.Payment{
		TransactionID: in.TransactionID,
		UserID:        owner.ID,
		RestaurantID:  restaurant.ID,
	}
	if err := u.payments.Create(ctx, &payment); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not create payment")
	}
	return nil
}

type GetPaymentsOutput struct {
	Payments []model.Payment `json:"payments"`
}

func (u *PaymentUsecase) GetPayments(ctx context.Context, owner *model.User) (GetPaymentsOutput, error) {
	payments, err := u.payments.ListByUser(ctx, owner.ID)
	if err != nil {
		return GetPaymentsOutput{}, NewHTTPError(http.StatusInternalServerError, "Could not get payments")
	}
	return GetPaymentsOutput{Payments: payments}, nil
}

// ExpirePromotions は期限切れプロモーションを解除する。
// main側のtickerから定期的に呼ばれる
func (u *PaymentUsecase) ExpirePromotions(ctx context.Context) (int, error) {
	restaurants, err := u.restaurants.ListPromotedExpired(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range restaurants {
		restaurants[i].IsPromoted = false
		restaurants[i].PromotedUntil = nil
		if err := u.restaurants.Update(ctx, &restaurants[i]); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
