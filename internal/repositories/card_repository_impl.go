package repositories

import (
	"fmt"

	"celora/internal/models"

	"gorm.io/gorm"
)

type cardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *models.VirtualCard) error {
	if err := r.db.Create(card).Error; err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

func (r *cardRepository) GetByID(id uint) (*models.VirtualCard, error) {
	var card models.VirtualCard
	if err := r.db.First(&card, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

func (r *cardRepository) GetByUserID(userID uint) ([]*models.VirtualCard, error) {
	var cards []*models.VirtualCard
	if err := r.db.Where("user_id = ?", userID).Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

func (r *cardRepository) Update(card *models.VirtualCard) error {
	if err := r.db.Save(card).Error; err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return nil
}

func (r *cardRepository) UpdateStatus(cardID uint, status, reason string) error {
	result := r.db.Model(&models.VirtualCard{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{"status": status, "status_reason": reason})
	if result.Error != nil {
		return fmt.Errorf("failed to update card status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepository) ListActiveIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.VirtualCard{}).
		Where("status <> ?", models.CardStatusClosed).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list active cards: %w", err)
	}
	return ids, nil
}

