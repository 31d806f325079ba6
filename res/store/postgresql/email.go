package postgresql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shinypath-api/res/store"

	"github.com/rs/xid"
)

type emailStore struct {
	*storeImpl
}

func NewEmailStore(rootStore *storeImpl) *emailStore {
	return &emailStore{storeImpl: rootStore}
}

func (es *emailStore) GetSettings(ctx context.Context) (*store.EmailSettings, error) {
	var settings store.EmailSettings
	result := es.db.WithContext(ctx).First(&settings)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return &settings, nil
}

func (es *emailStore) SaveSettings(ctx context.Context, settings *store.EmailSettings) error {
	existing, err := es.GetSettings(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if settings.ID == "" {
			settings.ID = fmt.Sprintf("email_%s", xid.New().String())
		}
		result := es.db.WithContext(ctx).Create(settings)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("failed to create email settings")
		}
		return nil
	}

	settings.ID = existing.ID
	result := es.db.WithContext(ctx).Save(settings)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("email settings not found (id: %s)", settings.ID)
	}
	return nil
}

func (es *emailStore) ListTemplates(ctx context.Context) ([]*store.EmailTemplate, error) {
	var templates []*store.EmailTemplate
	err := es.db.WithContext(ctx).Order("template_type ASC").Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (es *emailStore) GetTemplate(ctx context.Context, templateType string) (*store.EmailTemplate, error) {
	var template store.EmailTemplate
	result := es.db.WithContext(ctx).Where("template_type = ?", templateType).First(&template)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return &template, nil
}

func (es *emailStore) SaveTemplate(ctx context.Context, template *store.EmailTemplate) error {
	updates := map[string]interface{}{
		"subject":   template.Subject,
		"body_html": template.BodyHTML,
		"enabled":   template.Enabled,
	}

	result := es.db.WithContext(ctx).Model(&store.EmailTemplate{}).
		Where("template_type = ?", template.TemplateType).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("email template not found (type: %s): %w", template.TemplateType, store.ErrNotFound)
	}
	return nil
}
