package postgresql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shinypath-api/res/store"
)

type quoteStore struct {
	*storeImpl
}

func NewQuoteStore(rootStore *storeImpl) *quoteStore {
	return &quoteStore{storeImpl: rootStore}
}

func (qs *quoteStore) Create(ctx context.Context, quote *store.CleaningQuote) error {
	if quote.Status == "" {
		quote.Status = store.QuoteStatusPending
	}
	if quote.Status != store.QuoteStatusPending {
		return fmt.Errorf("new quote must be pending, got %q: %w", quote.Status, store.ErrInvalidInput)
	}
	if _, ok := store.ParseFormType(string(quote.FormType)); !ok {
		return fmt.Errorf("unknown form type %q: %w", quote.FormType, store.ErrInvalidInput)
	}

	result := qs.db.WithContext(ctx).Create(quote)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("failed to create quote")
	}
	return nil
}

func (qs *quoteStore) Get(ctx context.Context, id string) (*store.CleaningQuote, error) {
	var quote store.CleaningQuote
	result := qs.db.WithContext(ctx).Where("id = ?", id).First(&quote)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrNotFound
		}
		return nil, result.Error
	}
	return &quote, nil
}

func (qs *quoteStore) Update(ctx context.Context, quote *store.CleaningQuote) error {
	result := qs.db.WithContext(ctx).Save(quote)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("quote not found (id: %s)", quote.ID)
	}
	return nil
}

func (qs *quoteStore) Delete(ctx context.Context, id string) error {
	// Hard delete, no recovery
	result := qs.db.WithContext(ctx).Delete(&store.CleaningQuote{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("quote not found (id: %s)", id)
	}
	return nil
}

func (qs *quoteStore) UpdateStatus(ctx context.Context, id string, status store.QuoteStatus) (*store.CleaningQuote, error) {
	quote, err := qs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !store.CanTransition(quote.Status, status) {
		return nil, fmt.Errorf("%w (%s -> %s)", store.ErrInvalidStatusTransition, quote.Status, status)
	}

	result := qs.db.WithContext(ctx).Model(&store.CleaningQuote{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected != 1 {
		return nil, fmt.Errorf("quote not found (id: %s)", id)
	}

	quote.Status = status
	return quote, nil
}

func (qs *quoteStore) ListAll(ctx context.Context, filters store.QuoteFilters) ([]*store.CleaningQuote, error) {
	query := qs.db.WithContext(ctx)
	query = qs.applyFilters(query, filters)

	var quotes []*store.CleaningQuote
	if err := query.Find(&quotes).Error; err != nil {
		return nil, err
	}
	return quotes, nil
}

func (qs *quoteStore) ListBookedSlots(ctx context.Context, from string) ([]store.BookedSlot, error) {
	var rows []store.CleaningQuote

	err := qs.db.WithContext(ctx).
		Select("preferred_date", "preferred_time").
		Where("status NOT IN ?", []store.QuoteStatus{
			store.QuoteStatusCancelled,
			store.QuoteStatusCompleted,
		}).
		Where("preferred_date >= ?", from).
		Where("preferred_date <> '' AND preferred_time <> ''").
		Find(&rows).Error

	if err != nil {
		return nil, err
	}

	slots := make([]store.BookedSlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, store.BookedSlot{
			Date: row.PreferredDate,
			Time: row.PreferredTime,
		})
	}
	return slots, nil
}

// Helper method to apply filters
func (qs *quoteStore) applyFilters(query *gorm.DB, filters store.QuoteFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.FormType != nil {
		query = query.Where("form_type = ?", *filters.FormType)
	}
	if filters.StartDate != nil {
		query = query.Where("preferred_date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("preferred_date <= ?", *filters.EndDate)
	}

	if filters.OrderBy != "" {
		query = query.Order(filters.OrderBy)
	} else {
		query = query.Order("created_at DESC")
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	return query
}
