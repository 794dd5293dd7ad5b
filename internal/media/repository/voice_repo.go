package repository

import (
	"realtime_chat_service/internal/media/domain"

	"gorm.io/gorm"
)

// VoiceRepo definition voice note persistence
type VoiceRepo interface {
	AutoMigrate() error
	Create(voice *domain.Voice) error
	GetByID(id uint) (*domain.Voice, error)
	Update(voice *domain.Voice) error
	FindByStatus(status string) ([]domain.Voice, error)
	FindByOwner(ownerID string) ([]domain.Voice, error)
}

type voiceRepo struct {
	db *gorm.DB
}

// NewVoiceRepo create VoiceRepo
func NewVoiceRepo(db *gorm.DB) VoiceRepo {
	return &voiceRepo{db: db}
}

func (r *voiceRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Voice{})
}

func (r *voiceRepo) Create(voice *domain.Voice) error {
	return r.db.Create(voice).Error
}

// GetByID get Voice by id
func (r *voiceRepo) GetByID(id uint) (*domain.Voice, error) {
	var v domain.Voice
	if err := r.db.First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voiceRepo) Update(voice *domain.Voice) error {
	return r.db.Save(voice).Error
}

// FindByStatus find voice notes by status
func (r *voiceRepo) FindByStatus(status string) ([]domain.Voice, error) {
	var voices []domain.Voice
	if err := r.db.Where("status = ?", status).Find(&voices).Error; err != nil {
		return nil, err
	}
	return voices, nil
}

// FindByOwner find voice notes uploaded by one member
func (r *voiceRepo) FindByOwner(ownerID string) ([]domain.Voice, error) {
	var voices []domain.Voice
	if err := r.db.Where("owner_id = ?", ownerID).Order("id DESC").Find(&voices).Error; err != nil {
		return nil, err
	}
	return voices, nil
}
