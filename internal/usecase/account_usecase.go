package usecase

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 平文パスワードからハッシュへ
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// JWTを発行する約束
type TokenIssuer interface {
	Issue(userID int64, role model.UserRole) (string, error)
}

// 認証コード（UUID）を作る約束
type CodeGenerator interface {
	NewCode() string
}

// 認証メールを送る約束。失敗しても登録は成立させる
type VerificationMailer interface {
	SendVerification(ctx context.Context, email string, code string) error
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	return &BcryptPasswordHasher{cost: cost}
}

func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// AccountUsecase は会員登録・ログイン・プロフィール・住所の業務ロジックです。
type AccountUsecase struct {
	users         repo.UserRepository
	verifications repo.VerificationRepository
	addresses     repo.AddressRepository
	hasher        PasswordHasher
	verifier      PasswordVerifier
	issuer        TokenIssuer
	codeGen       CodeGenerator
	mailer        VerificationMailer
}

func NewAccountUsecase(
	users repo.UserRepository,
	verifications repo.VerificationRepository,
	addresses repo.AddressRepository,
	hasher PasswordHasher,
	verifier PasswordVerifier,
	issuer TokenIssuer,
	codeGen CodeGenerator,
	mailer VerificationMailer,
) *AccountUsecase {
	return &AccountUsecase{
		users:         users,
		verifications: verifications,
		addresses:     addresses,
		hasher:        hasher,
		verifier:      verifier,
		issuer:        issuer,
		codeGen:       codeGen,
		mailer:        mailer,
	}
}

type CreateAccountInput struct {
	Email    string
	Password string
	Role     model.UserRole
}

func isValidRole(role model.UserRole) bool {
	switch role {
	case model.RoleClient, model.RoleOwner, model.RoleDelivery:
		return true
	}
	return false
}

// CreateAccount は会員登録。認証コードを発行してメールを送る
func (u *AccountUsecase) CreateAccount(ctx context.Context, in CreateAccountInput) error {
	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return NewHTTPError(http.StatusBadRequest, "Invalid email format")
	}
	if len(in.Password) < 8 {
		return NewHTTPError(http.StatusBadRequest, "Password is too short")
	}
	if !isValidRole(in.Role) {
		return NewHTTPError(http.StatusBadRequest, "Invalid role")
	}

	//email重複チェック
	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Couldn't create account")
	}
	if existing != nil {
		return NewHTTPError(http.StatusConflict, "There is a user with that email already")
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Couldn't create account")
	}

	user := model.User{
		Email:    email,
		Password: hashed,
		Role:     in.Role,
	}
	if err := u.users.Create(ctx, &user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Couldn't create account")
	}

	verification := model.Verification{
		Code:   u.codeGen.NewCode(),
		UserID: user.ID,
	}
	if err := u.verifications.Replace(ctx, &verification); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Couldn't create account")
	}

	//メール送信は投げっぱなし。失敗しても登録は成立
	_ = u.mailer.SendVerification(ctx, user.Email, verification.Code)

	return nil
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Token string `json:"token"`
}

func (u *AccountUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not log user in")
	}
	if user == nil {
		return out, NewHTTPError(http.StatusNotFound, "User not found")
	}

	if !u.verifier.Verify(in.Password, user.Password) {
		return out, NewHTTPError(http.StatusUnauthorized, "Wrong password")
	}

	token, err := u.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not log user in")
	}

	out.Token = token
	return out, nil
}

// FindByID はmiddleware等が認証済みユーザーを引くのに使う
func (u *AccountUsecase) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "User not found")
	}
	if user == nil {
		return nil, NewHTTPError(http.StatusNotFound, "User not found")
	}
	return user, nil
}

type EditProfileInput struct {
	Email    *string
	Password *string
}

// EditProfile はメール・パスワードの変更。
// メールを変えると未認証に戻り、新しい認証コードを送る
func (u *AccountUsecase) EditProfile(ctx context.Context, user *model.User, in EditProfileInput) error {
	if in.Email != nil {
		email := strings.TrimSpace(*in.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			return NewHTTPError(http.StatusBadRequest, "Invalid email format")
		}

		existing, err := u.users.FindByEmail(ctx, email)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Could not update profile")
		}
		if existing != nil && existing.ID != user.ID {
			return NewHTTPError(http.StatusConflict, "There is a user with that email already")
		}

		user.Email = email
		user.Verified = false

		verification := model.Verification{
			Code:   u.codeGen.NewCode(),
			UserID: user.ID,
		}
		if err := u.verifications.Replace(ctx, &verification); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Could not update profile")
		}
		_ = u.mailer.SendVerification(ctx, user.Email, verification.Code)
	}

	if in.Password != nil {
		if len(*in.Password) < 8 {
			return NewHTTPError(http.StatusBadRequest, "Password is too short")
		}
		hashed, err := u.hasher.Hash(*in.Password)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "Could not update profile")
		}
		user.Password = hashed
	}

	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not update profile")
	}
	return nil
}

// VerifyEmail はコードを突き合わせてユーザーを認証済みにする。コードは使い捨て
func (u *AccountUsecase) VerifyEmail(ctx context.Context, code string) error {
	verification, err := u.verifications.FindByCode(ctx, code)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not verify email")
	}
	if verification == nil {
		return NewHTTPError(http.StatusNotFound, "Verification not found")
	}

	verification.User.Verified = true
	if err := u.users.Update(ctx, &verification.User); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not verify email")
	}
	if err := u.verifications.Delete(ctx, verification.ID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not verify email")
	}
	return nil
}

type CreateAddressInput struct {
	Address string
	Lat     float64
	Lng     float64
}

type CreateAddressOutput struct {
	AddressID int64 `json:"address_id"`
}

func (u *AccountUsecase) CreateAddress(ctx context.Context, user *model.User, in CreateAddressInput) (CreateAddressOutput, error) {
	var out CreateAddressOutput

	addr := model.Address{
		UserID:  user.ID,
		Address: in.Address,
		Lat:     in.Lat,
		Lng:     in.Lng,
	}
	if err := u.addresses.Create(ctx, &addr); err != nil {
		return out, NewHTTPError(http.StatusInternalServerError, "Could not create address")
	}

	out.AddressID = addr.ID
	return out, nil
}

type MyAddressesOutput struct {
	Addresses []model.Address `json:"addresses"`
}

func (u *AccountUsecase) MyAddresses(ctx context.Context, user *model.User) (MyAddressesOutput, error) {
	addresses, err := u.addresses.ListByUserID(ctx, user.ID)
	if err != nil {
		return MyAddressesOutput{}, NewHTTPError(http.StatusInternalServerError, "Could not load addresses")
	}
	return MyAddressesOutput{Addresses: addresses}, nil
}

func (u *AccountUsecase) SelectAddress(ctx context.Context, user *model.User, addressID int64) error {
	err := u.addresses.Select(ctx, user.ID, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Address not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not select address")
	}
	return nil
}

func (u *AccountUsecase) DeleteAddress(ctx context.Context, user *model.User, addressID int64) error {
	addr, err := u.addresses.FindByID(ctx, addressID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "Address not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not delete address")
	}
	//他人の住所は消せない
	if addr.UserID != user.ID {
		return NewHTTPError(http.StatusForbidden, "You are not allowed to do this")
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "Could not delete address")
	}
	return nil
}
