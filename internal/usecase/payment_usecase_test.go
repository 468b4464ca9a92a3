package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p *model.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *PaymentRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

func newPaymentUsecase(t *testing.T) (*usecase.PaymentUsecase, *PaymentRepoMock, *RestaurantRepoMock) {
	t.Helper()

	payments := new(PaymentRepoMock)
	restaurants := new(RestaurantRepoMock)
	uc := usecase.NewPaymentUsecase(payments, restaurants)
	return uc, payments, restaurants
}

func TestCreatePayment_PromotesRestaurant(t *testing.T) {
	uc, payments, restaurants := newPaymentUsecase(t)

	restaurants.On("FindByID", mock.Anything, int64(10)).
		Return(model.Restaurant{ID: 10, OwnerID: 5}, nil)
	restaurants.On("Update", mock.Anything, mock.MatchedBy(func(r *model.Restaurant) bool {
		//支払いで7日間のプロモーションが付く
		return r.IsPromoted &&
			r.PromotedUntil != nil &&
			time.Until(*r.PromotedUntil) > 6*24*time.Hour
	})).Return(nil)
	payments.On("Create", mock.Anything, mock.MatchedBy(func(p *model.Payment) bool {
		return p.TransactionID == "tx-abc" && p.UserID == 5 && p.RestaurantID == 10
	})).Return(nil)

	err := uc.CreatePayment(context.Background(), ownerUser(5), usecase.CreatePaymentInput{
		TransactionID: "tx-abc",
		RestaurantID:  10,
	})

	assert.NoError(t, err)
	payments.AssertExpectations(t)
	restaurants.AssertExpectations(t)
}

func TestCreatePayment_NotOwner(t *testing.T) {
	uc, payments, restaurants := newPaymentUsecase(t)

	restaurants.On("FindByID", mock.Anything, int64(10)).
		Return(model.Restaurant{ID: 10, OwnerID: 9}, nil)

	err := uc.CreatePayment(context.Background(), ownerUser(5), usecase.CreatePaymentInput{
		TransactionID: "tx-abc",
		RestaurantID:  10,
	})

	assertHTTPError(t, err, 403, "You are not allowed to do this")
	payments.AssertNotCalled(t, "Create")
}

func TestCreatePayment_RestaurantNotFound(t *testing.T) {
	uc, _, restaurants := newPaymentUsecase(t)

	restaurants.On("FindByID", mock.Anything, int64(10)).
		Return(model.Restaurant{}, repo.ErrNotFound)

	err := uc.CreatePayment(context.Background(), ownerUser(5), usecase.CreatePaymentInput{
		TransactionID: "tx-abc",
		RestaurantID:  10,
	})

	assertHTTPError(t, err, 404, "Restaurant not found")
}

func TestExpirePromotions(t *testing.T) {
	uc, _, restaurants := newPaymentUsecase(t)

	past := time.Now().Add(-time.Hour)
	expired := []model.Restaurant{
		{ID: 1, IsPromoted: true, PromotedUntil: &past},
		{ID: 2, IsPromoted: true, PromotedUntil: &past},
	}
	restaurants.On("ListPromotedExpired", mock.Anything, mock.Anything).Return(expired, nil)
	restaurants.On("Update", mock.Anything, mock.MatchedBy(func(r *model.Restaurant) bool {
		return !r.IsPromoted && r.PromotedUntil == nil
	})).Return(nil).Twice()

	n, err := uc.ExpirePromotions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, n)
	restaurants.AssertExpectations(t)
}
