package usecase_test

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil {
		user.ID = 1
	}
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type VerificationRepoMock struct{ mock.Mock }

func (m *VerificationRepoMock) Replace(ctx context.Context, v *model.Verification) error {
	args := m.Called(ctx, v)
	return args.Error(0)
}

func (m *VerificationRepoMock) FindByCode(ctx context.Context, code string) (*model.Verification, error) {
	args := m.Called(ctx, code)
	v, _ := args.Get(0).(*model.Verification)
	return v, args.Error(1)
}

func (m *VerificationRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, addr *model.Address) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	as, _ := args.Get(0).([]model.Address)
	return as, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Select(ctx context.Context, userID int64, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

// =====================
// 部品のfake（mockにするほどでもないもの）
// =====================

type fakeHasher struct{}

func (fakeHasher) Hash(plain string) (string, error) { return "hashed:" + plain, nil }

type fakeVerifier struct{}

func (fakeVerifier) Verify(plain string, hashed string) bool {
	return hashed == "hashed:"+plain
}

type fakeIssuer struct {
	err error
}

func (f fakeIssuer) Issue(userID int64, role model.UserRole) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token", nil
}

type fakeCodeGen struct{}

func (fakeCodeGen) NewCode() string { return "code-123" }

type mailerMock struct{ mock.Mock }

func (m *mailerMock) SendVerification(ctx context.Context, email string, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func newAccountUsecase(t *testing.T) (*usecase.AccountUsecase, *UserRepoMock, *VerificationRepoMock, *AddressRepoMock, *mailerMock) {
	t.Helper()

	users := new(UserRepoMock)
	verifications := new(VerificationRepoMock)
	addresses := new(AddressRepoMock)
	mailer := new(mailerMock)

	uc := usecase.NewAccountUsecase(
		users, verifications, addresses,
		fakeHasher{}, fakeVerifier{}, fakeIssuer{}, fakeCodeGen{}, mailer,
	)
	return uc, users, verifications, addresses, mailer
}

// =====================
// CreateAccount
// =====================

func TestCreateAccount_Success(t *testing.T) {
	uc, users, verifications, _, mailer := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		//パスワードはハッシュで保存され、roleはそのまま
		return u.Email == "taro@example.com" &&
			u.Password == "hashed:password123" &&
			u.Role == model.RoleClient &&
			!u.Verified
	})).Return(nil)
	verifications.On("Replace", mock.Anything, mock.MatchedBy(func(v *model.Verification) bool {
		return v.Code == "code-123" && v.UserID == 1
	})).Return(nil)
	mailer.On("SendVerification", mock.Anything, "taro@example.com", "code-123").Return(nil)

	err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Email:    "taro@example.com",
		Password: "password123",
		Role:     model.RoleClient,
	})

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	uc, users, _, _, mailer := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 9, Email: "taro@example.com"}, nil)

	err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Email:    "taro@example.com",
		Password: "password123",
		Role:     model.RoleClient,
	})

	assertHTTPError(t, err, 409, "There is a user with that email already")
	users.AssertNotCalled(t, "Create")
	mailer.AssertNotCalled(t, "SendVerification")
}

func TestCreateAccount_InvalidInput(t *testing.T) {
	uc, _, _, _, _ := newAccountUsecase(t)
	ctx := context.Background()

	err := uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Email: "not-an-email", Password: "password123", Role: model.RoleClient,
	})
	assertHTTPError(t, err, 400, "Invalid email format")

	err = uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Email: "taro@example.com", Password: "short", Role: model.RoleClient,
	})
	assertHTTPError(t, err, 400, "Password is too short")

	err = uc.CreateAccount(ctx, usecase.CreateAccountInput{
		Email: "taro@example.com", Password: "password123", Role: model.UserRole("Admin"),
	})
	assertHTTPError(t, err, 400, "Invalid role")
}

func TestCreateAccount_MailFailureDoesNotFailSignup(t *testing.T) {
	uc, users, verifications, _, mailer := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)
	users.On("Create", mock.Anything, mock.Anything).Return(nil)
	verifications.On("Replace", mock.Anything, mock.Anything).Return(nil)
	//メール送信は失敗しても登録は成立する
	mailer.On("SendVerification", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		Email:    "taro@example.com",
		Password: "password123",
		Role:     model.RoleOwner,
	})

	assert.NoError(t, err)
}

// =====================
// Login
// =====================

func TestLogin_Success(t *testing.T) {
	uc, users, _, _, _ := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, Email: "taro@example.com", Password: "hashed:password123", Role: model.RoleClient}, nil)

	out, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "token", out.Token)
}

func TestLogin_UserNotFound(t *testing.T) {
	uc, users, _, _, _ := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").Return(nil, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "password123",
	})

	assertHTTPError(t, err, 404, "User not found")
}

func TestLogin_WrongPassword(t *testing.T) {
	uc, users, _, _, _ := newAccountUsecase(t)

	users.On("FindByEmail", mock.Anything, "taro@example.com").
		Return(&model.User{ID: 1, Password: "hashed:other"}, nil)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "taro@example.com",
		Password: "password123",
	})

	assertHTTPError(t, err, 401, "Wrong password")
}

// =====================
// VerifyEmail
// =====================

func TestVerifyEmail_Success(t *testing.T) {
	uc, users, verifications, _, _ := newAccountUsecase(t)

	verification := &model.Verification{
		ID:     7,
		Code:   "code-123",
		UserID: 1,
		User:   model.User{ID: 1, Verified: false},
	}
	verifications.On("FindByCode", mock.Anything, "code-123").Return(verification, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 1 && u.Verified
	})).Return(nil)
	//コードは使い捨て
	verifications.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := uc.VerifyEmail(context.Background(), "code-123")
	assert.NoError(t, err)
	verifications.AssertExpectations(t)
}

func TestVerifyEmail_UnknownCode(t *testing.T) {
	uc, _, verifications, _, _ := newAccountUsecase(t)

	verifications.On("FindByCode", mock.Anything, "nope").Return(nil, nil)

	err := uc.VerifyEmail(context.Background(), "nope")
	assertHTTPError(t, err, 404, "Verification not found")
}

// =====================
// EditProfile
// =====================

func TestEditProfile_EmailChangeResetsVerification(t *testing.T) {
	uc, users, verifications, _, mailer := newAccountUsecase(t)

	user := &model.User{ID: 1, Email: "old@example.com", Verified: true}

	users.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	verifications.On("Replace", mock.Anything, mock.Anything).Return(nil)
	mailer.On("SendVerification", mock.Anything, "new@example.com", "code-123").Return(nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		//メール変更で未認証に戻る
		return u.Email == "new@example.com" && !u.Verified
	})).Return(nil)

	newEmail := "new@example.com"
	err := uc.EditProfile(context.Background(), user, usecase.EditProfileInput{Email: &newEmail})

	assert.NoError(t, err)
	mailer.AssertExpectations(t)
}

func TestEditProfile_EmailTakenByAnotherUser(t *testing.T) {
	uc, users, _, _, _ := newAccountUsecase(t)

	user := &model.User{ID: 1, Email: "old@example.com"}
	users.On("FindByEmail", mock.Anything, "new@example.com").
		Return(&model.User{ID: 2, Email: "new@example.com"}, nil)

	newEmail := "new@example.com"
	err := uc.EditProfile(context.Background(), user, usecase.EditProfileInput{Email: &newEmail})

	assertHTTPError(t, err, 409, "There is a user with that email already")
}

// =====================
// Address
// =====================

func TestDeleteAddress_OwnershipCheck(t *testing.T) {
	uc, _, _, addresses, _ := newAccountUsecase(t)

	addresses.On("FindByID", mock.Anything, int64(5)).
		Return(model.Address{ID: 5, UserID: 9}, nil)

	err := uc.DeleteAddress(context.Background(), clientUser(1), 5)
	assertHTTPError(t, err, 403, "You are not allowed to do this")
	addresses.AssertNotCalled(t, "Delete")
}

func TestDeleteAddress_Success(t *testing.T) {
	uc, _, _, addresses, _ := newAccountUsecase(t)

	addresses.On("FindByID", mock.Anything, int64(5)).
		Return(model.Address{ID: 5, UserID: 1}, nil)
	addresses.On("Delete", mock.Anything, int64(5)).Return(nil)

	err := uc.DeleteAddress(context.Background(), clientUser(1), 5)
	assert.NoError(t, err)
	addresses.AssertExpectations(t)
}

func TestSelectAddress_NotFound(t *testing.T) {
	uc, _, _, addresses, _ := newAccountUsecase(t)

	addresses.On("Select", mock.Anything, int64(1), int64(5)).Return(repo.ErrNotFound)

	err := uc.SelectAddress(context.Background(), clientUser(1), 5)
	assertHTTPError(t, err, 404, "Address not found")
}
