package repository

import (
	"context"
	"order_queue/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
	List(ctx context.Context) ([]models.MenuItem, error)
	ListActive(ctx context.Context) ([]models.MenuItem, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.MenuItem, error)
	Delete(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	Reorder(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error)
}

type menuItemRepository struct {
	db *gorm.DB
}

func NewMenuItemRepository(db *gorm.DB) MenuItemRepository {
	return &menuItemRepository{db: db}
}

// Create ranks the new item after every existing one.
func (r *menuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxRank *int
		if err := tx.Model(&models.MenuItem{}).Select("MAX(display_order)").Scan(&maxRank).Error; err != nil {
			return err
		}
		item.DisplayOrder = 0
		if maxRank != nil {
			item.DisplayOrder = *maxRank + 1
		}
		return tx.Create(item).Error
	})
}

func (r *menuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuItemRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *menuItemRepository) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *menuItemRepository) ListActive(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order ASC").
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *menuItemRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*models.MenuItem, error) {
	db := r.db.WithContext(ctx)
	if len(updates) > 0 {
		res := db.Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.GetByID(ctx, id)
}

func (r *menuItemRepository) Delete(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var deleted []models.MenuItem
	res := r.db.WithContext(ctx).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		Delete(&deleted)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return nil, ErrInUse
		}
		return nil, res.Error
	}
	if len(deleted) == 0 {
		return nil, ErrNotFound
	}
	return &deleted[0], nil
}

// Reorder renumbers the whole menu. Listed items swap into the slots they
// already occupy, in the listed order; unlisted items stay where they are and
// unknown ids are ignored.
func (r *menuItemRepository) Reorder(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []uuid.UUID
		err := tx.Model(&models.MenuItem{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("display_order ASC").
			Order("created_at ASC").
			Pluck("id", &current).Error
		if err != nil {
			return err
		}

		for rank, id := range reorderedIDs(current, ids) {
			if err := tx.Model(&models.MenuItem{}).Where("id = ?", id).Update("display_order", rank).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var items []models.MenuItem
	err = r.db.WithContext(ctx).Order("display_order ASC").Order("created_at ASC").Find(&items).Error
	return items, err
}

func reorderedIDs(current, ids []uuid.UUID) []uuid.UUID {
	present := make(map[uuid.UUID]bool, len(current))
	for _, id := range current {
		present[id] = true
	}

	listed := make([]uuid.UUID, 0, len(ids))
	inList := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if present[id] && !inList[id] {
			listed = append(listed, id)
			inList[id] = true
		}
	}

	out := make([]uuid.UUID, len(current))
	next := 0
	for i, id := range current {
		if inList[id] {
			out[i] = listed[next]
			next++
			continue
		}
		out[i] = id
	}
	return out
}
