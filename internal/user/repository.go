package user

import "gorm.io/gorm"

type Repository interface {
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	FindByReferralCode(code string) (*User, error)
	ListByReferredBy(code string) ([]User, error)
	UpdateWithdrawalAddress(id string, nequi string, ownerName string) error
	ListUsers(limit, offset int) ([]User, error)
	CountUsers() (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(id string) (*User, error) {
	var usr User
	err := r.db.Where("id = ?", id).First(&usr).Error
	return &usr, err
}

func (r *repository) FindByEmail(email string) (*User, error) {
	var usr User
	err := r.db.Where("email = ?", email).First(&usr).Error
	return &usr, err
}

func (r *repository) FindByReferralCode(code string) (*User, error) {
	var usr User
	err := r.db.Where("referral_code = ?", code).First(&usr).Error
	return &usr, err
}

func (r *repository) ListByReferredBy(code string) ([]User, error) {
	var users []User
	err := r.db.Where("referred_by = ?", code).Order("created_at desc").Find(&users).Error
	return users, err
}

func (r *repository) UpdateWithdrawalAddress(id string, nequi string, ownerName string) error {
	return r.db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"withdrawal_nequi": nequi,
		"nequi_owner_name": ownerName,
	}).Error
}

func (r *repository) ListUsers(limit, offset int) ([]User, error) {
	var users []User
	err := r.db.Order("created_at desc").Limit(limit).Offset(offset).Find(&users).Error
	return users, err
}

func (r *repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&User{}).Count(&count).Error
	return count, err
}
