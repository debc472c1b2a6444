package repository

import (
	"errors"

	"glee-grades-bot/internal/models"

	"gorm.io/gorm"
)

var (
	ErrMemberExists   = errors.New("member already exists")
	ErrMemberNotFound = errors.New("member not found")
)

type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByChatID(chatID int64) (*models.Member, error)
	Update(member *models.Member) error
	UpdateRole(chatID int64, role models.Role) error
	GetAll() ([]*models.Member, error)
	GetOfficers() ([]*models.Member, error)
	Delete(chatID int64) error
}

type GormMemberRepository struct {
	db *gorm.DB
}

func NewGormMemberRepository(db *gorm.DB) (*GormMemberRepository, error) {
	if err := db.AutoMigrate(&models.Member{}); err != nil {
		return nil, err
	}

	return &GormMemberRepository{db: db}, nil
}

func (r *GormMemberRepository) Create(member *models.Member) error {
	var count int64
	result := r.db.Model(&models.Member{}).Where("chat_id = ?", member.ChatID).Count(&count)
	if result.Error != nil {
		return result.Error
	}
	if count > 0 {
		return ErrMemberExists
	}
	if member.Role == "" {
		member.Role = models.RoleMember
	}

	return r.db.Create(member).Error
}

func (r *GormMemberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	result := r.db.First(&member, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &member, nil
}

func (r *GormMemberRepository) GetByChatID(chatID int64) (*models.Member, error) {
	var member models.Member
	result := r.db.Where("chat_id = ?", chatID).First(&member)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}

	return &member, nil
}

func (r *GormMemberRepository) Update(member *models.Member) error {
	var existing models.Member
	result := r.db.Where("chat_id = ?", member.ChatID).First(&existing)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return ErrMemberNotFound
	}
	if result.Error != nil {
		return result.Error
	}

	return r.db.Save(member).Error
}

func (r *GormMemberRepository) UpdateRole(chatID int64, role models.Role) error {
	result := r.db.Model(&models.Member{}).
		Where("chat_id = ?", chatID).
		Update("role", role)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

func (r *GormMemberRepository) GetAll() ([]*models.Member, error) {
	var members []*models.Member
	result := r.db.Order("last_name ASC, first_name ASC").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	return members, nil
}

func (r *GormMemberRepository) GetOfficers() ([]*models.Member, error) {
	var officers []*models.Member
	result := r.db.Where("role IN ?", []models.Role{models.RoleOfficer, models.RoleAdmin}).Find(&officers)
	if result.Error != nil {
		return nil, result.Error
	}

	return officers, nil
}

// Delete removes the member together with their enrollment, attendance,
// absence requests and grade snapshots.
func (r *GormMemberRepository) Delete(chatID int64) error {
	member, err := r.GetByChatID(chatID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrMemberNotFound
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.ActiveSemester{},
			&models.Attendance{},
			&models.AbsenceRequest{},
			&models.GradeSnapshot{},
		} {
			if err := tx.Where("member_id = ?", member.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(member).Error
	})
}
