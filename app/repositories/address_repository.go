package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunarbyte/go-storefront/app/helpers"
	"github.com/lunarbyte/go-storefront/app/models"
	"gorm.io/gorm"
)

type AddressRepository interface {
	Create(ctx context.Context, address *models.Address) error
	FindByIDForUser(ctx context.Context, id uint, userID string) (*models.Address, error)
	FindByIDForUserTx(ctx context.Context, tx *gorm.DB, id uint, userID string) (*models.Address, error)
	FindByUser(ctx context.Context, userID string) ([]models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id uint, userID string) error
	SetDefault(ctx context.Context, id uint, userID string) (*models.Address, error)
}

type gormAddressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &gormAddressRepository{db: db}
}

func (r *gormAddressRepository) Create(ctx context.Context, address *models.Address) error {
	if address.IsDefault {
		err := r.db.WithContext(ctx).Model(&models.Address{}).
			Where("user_id = ? AND is_default = ?", address.UserID, true).
			Update("is_default", false).Error
		if err != nil {
			return fmt.Errorf("failed to unset old default address: %w", err)
		}
	}
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *gormAddressRepository) FindByIDForUser(ctx context.Context, id uint, userID string) (*models.Address, error) {
	return findAddressForUser(ctx, r.db, id, userID)
}

func (r *gormAddressRepository) FindByIDForUserTx(ctx context.Context, tx *gorm.DB, id uint, userID string) (*models.Address, error) {
	return findAddressForUser(ctx, tx, id, userID)
}

func findAddressForUser(ctx context.Context, db *gorm.DB, id uint, userID string) (*models.Address, error) {
	var address models.Address
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&address).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &address, nil
}

func (r *gormAddressRepository) FindByUser(ctx context.Context, userID string) ([]models.Address, error) {
	var addresses []models.Address
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error
	if err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *gormAddressRepository) Update(ctx context.Context, address *models.Address) error {
	if address.IsDefault {
		err := r.db.WithContext(ctx).Model(&models.Address{}).
			Where("user_id = ? AND id != ?", address.UserID, address.ID).
			Update("is_default", false).Error
		if err != nil {
			return fmt.Errorf("failed to unset old default address: %w", err)
		}
	}
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *gormAddressRepository) Delete(ctx context.Context, id uint, userID string) error {
	address, err := r.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return err
	}
	if address == nil {
		return helpers.ErrNotFound
	}

	var refs int64
	err = r.db.WithContext(ctx).Model(&models.Order{}).
		Where("shipping_address_id = ?", id).
		Count(&refs).Error
	if err != nil {
		return err
	}
	if refs > 0 {
		return helpers.ErrAddressInUse
	}

	return r.db.WithContext(ctx).Delete(&models.Address{}, "id = ?", id).Error
}

// SetDefault unsets every other default for the user and marks the target,
// both writes in one transaction so no reader observes zero or two defaults.
func (r *gormAddressRepository) SetDefault(ctx context.Context, id uint, userID string) (*models.Address, error) {
	address, err := r.FindByIDForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, helpers.ErrNotFound
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Address{}).
			Where("user_id = ? AND is_default = ?", userID, true).
			Update("is_default", false).Error; err != nil {
			return fmt.Errorf("failed to unset existing default addresses: %w", err)
		}
		return tx.Model(&models.Address{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true).Error
	})
	if err != nil {
		return nil, err
	}

	address.IsDefault = true
	return address, nil
}
