package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type verificationGormRepository struct {
	db *gorm.DB
}

func NewVerificationGormRepository(db *gorm.DB) repo.VerificationRepository {
	return &verificationGormRepository{db: db}
}

// 既存コードを消してから作る（ユーザーごとに1件を保つ）
func (r *verificationGormRepository) Replace(ctx context.Context, v *model.Verification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", v.UserID).Delete(&model.Verification{}).Error; err != nil {
			return err
		}
		return tx.Create(v).Error
	})
}

func (r *verificationGormRepository) FindByCode(ctx context.Context, code string) (*model.Verification, error) {
	var v model.Verification

	err := r.db.WithContext(ctx).
		Preload("User").
		Where("code = ?", code).
		First(&v).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &v, nil
}

func (r *verificationGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Verification{}, id).Error
}
