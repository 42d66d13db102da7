package repositories

import (
	"fmt"

	"celora/internal/models"

	"gorm.io/gorm"
)

// LinkRepository handles card wallet links and cross platform conversions.
type LinkRepository interface {
	CreateLink(link *models.CardWalletLink) error
	GetLinkByCardID(cardID uint) (*models.CardWalletLink, error)
	UpdateLink(link *models.CardWalletLink) error

	CreateConversion(cx *models.CrossPlatformTransaction) error
	UpdateConversionStatus(id uint, status, failureReason string) error
	GetConversionsByCardID(cardID uint) ([]models.CrossPlatformTransaction, error)
}

type linkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) CreateLink(link *models.CardWalletLink) error {
	if err := r.db.Create(link).Error; err != nil {
		return fmt.Errorf("failed to create link: %w", err)
	}
	return nil
}

func (r *linkRepository) GetLinkByCardID(cardID uint) (*models.CardWalletLink, error) {
	var link models.CardWalletLink
	if err := r.db.Where("card_id = ?", cardID).First(&link).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return &link, nil
}

func (r *linkRepository) UpdateLink(link *models.CardWalletLink) error {
	if err := r.db.Save(link).Error; err != nil {
		return fmt.Errorf("failed to update link: %w", err)
	}
	return nil
}

func (r *linkRepository) CreateConversion(cx *models.CrossPlatformTransaction) error {
	if err := r.db.Create(cx).Error; err != nil {
		return fmt.Errorf("failed to create conversion: %w", err)
	}
	return nil
}

func (r *linkRepository) UpdateConversionStatus(id uint, status, failureReason string) error {
	result := r.db.Model(&models.CrossPlatformTransaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "failure_reason": failureReason})
	if result.Error != nil {
		return fmt.Errorf("failed to update conversion: %w", result.Error)
	}
	return nil
}

func (r *linkRepository) GetConversionsByCardID(cardID uint) ([]models.CrossPlatformTransaction, error) {
	var cxs []models.CrossPlatformTransaction
	if err := r.db.Where("card_id = ?", cardID).Order("created_at DESC").Find(&cxs).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversions: %w", err)
	}
	return cxs, nil
}
