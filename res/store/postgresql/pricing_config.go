package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shinypath-api/res/store"

	"github.com/rs/xid"
)

type pricingConfigStore struct {
	*storeImpl
}

func NewPricingConfigStore(rootStore *storeImpl) *pricingConfigStore {
	return &pricingConfigStore{storeImpl: rootStore}
}

func (ps *pricingConfigStore) GetActive(ctx context.Context) (json.RawMessage, error) {
	var setting store.PricingSetting
	result := ps.db.WithContext(ctx).Where("is_active = ?", true).First(&setting)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return json.RawMessage(setting.Config), nil
}

func (ps *pricingConfigStore) SaveActive(ctx context.Context, config json.RawMessage) error {
	if !json.Valid(config) {
		return fmt.Errorf("pricing config is not valid JSON: %w", store.ErrInvalidInput)
	}

	var setting store.PricingSetting
	result := ps.db.WithContext(ctx).Where("is_active = ?", true).First(&setting)
	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		setting = store.PricingSetting{
			ID:       fmt.Sprintf("price_%s", xid.New().String()),
			Config:   string(config),
			IsActive: true,
		}
		create := ps.db.WithContext(ctx).Create(&setting)
		if create.Error != nil {
			return create.Error
		}
		if create.RowsAffected != 1 {
			return fmt.Errorf("failed to create pricing config")
		}
		return nil
	}

	update := ps.db.WithContext(ctx).Model(&store.PricingSetting{}).
		Where("id = ?", setting.ID).
		Update("config", string(config))
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected != 1 {
		return fmt.Errorf("pricing config not found (id: %s)", setting.ID)
	}
	return nil
}
