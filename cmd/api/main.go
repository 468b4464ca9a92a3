package main

import (
	"context"
	"log"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/events"
	"app/internal/handler"
	"app/internal/infra/db"
	infraevents "app/internal/infra/events"
	infraRepo "app/internal/infra/repository"
	"app/internal/mail"
	"app/internal/server"
	"app/internal/upload"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// 認証コードはUUID
type uuidCodeGenerator struct{}

func (uuidCodeGenerator) NewCode() string {
	return uuid.NewString()
}

type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.UserRole) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(i.ttl).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// 期限切れプロモーションの掃除間隔
const promotionSweepInterval = 1 * time.Hour

func main() {
	//ローカル開発用。.envがない環境ではスキップ
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Verification{},
		&model.Address{},
		&model.Category{},
		&model.Restaurant{},
		&model.Dish{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	verificationRepo := infraRepo.NewVerificationGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	categoryRepo := infraRepo.NewCategoryGormRepository(gormDB)
	restaurantRepo := infraRepo.NewRestaurantGormRepository(gormDB)
	dishRepo := infraRepo.NewDishGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	paymentRepo := infraRepo.NewPaymentGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//注文イベントの配信先Redis
	var publisher events.Publisher
	redisPub, err := infraevents.NewRedisPublisher(cfg.RedisURL)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisPub.Close()
	publisher = redisPub

	//認証メール。MAILGUN_DOMAIN未設定なら送らない
	var mailer usecase.VerificationMailer = mail.NoopMailer{}
	if cfg.MailgunDomain != "" {
		mailer = mail.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey)
	}

	//画像アップロード。バケット未設定なら無効
	var uploader upload.Uploader
	if cfg.AWSS3Bucket != "" {
		uploader, err = upload.NewS3Uploader(context.Background(), cfg.AWSS3Bucket, cfg.AWSS3Region)
		if err != nil {
			log.Fatalf("s3: %v", err)
		}
	}

	//usecaseに渡す部品
	hasher := usecase.NewBcryptPasswordHasher(12)
	verifier := usecase.NewBcryptPasswordVerifier()
	issuer := &jwtIssuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    72 * time.Hour,
	}

	//Usecase生成
	accountUC := usecase.NewAccountUsecase(
		userRepo, verificationRepo, addressRepo,
		hasher, verifier, issuer, uuidCodeGenerator{}, mailer,
	)
	restaurantUC := usecase.NewRestaurantUsecase(restaurantRepo, categoryRepo, dishRepo)
	orderUC := usecase.NewOrderUsecase(txManager, orderRepo, restaurantRepo, publisher)
	paymentUC := usecase.NewPaymentUsecase(paymentRepo, restaurantRepo)

	//期限切れプロモーションを定期的に解除する
	go func() {
		ticker := time.NewTicker(promotionSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			n, err := paymentUC.ExpirePromotions(context.Background())
			if err != nil {
				log.Printf("expire promotions: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("expired %d promotions", n)
			}
		}
	}()

	//Handler生成とServer起動
	e := server.New(
		cfg,
		userRepo,
		handler.NewAuthHandler(accountUC),
		handler.NewRestaurantHandler(restaurantUC),
		handler.NewOrderHandler(orderUC),
		handler.NewPaymentHandler(paymentUC),
		handler.NewUploadHandler(uploader),
	)
	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
