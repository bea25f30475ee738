package appconfig

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Repository interface {
	GetAppConfig() (AppConfig, error)
	GetWithdrawalConfig() (WithdrawalConfig, error)
	GetDepositBonusConfig() (DepositBonusConfig, error)
	SaveAppConfig(cfg *AppConfig) error
	SaveWithdrawalConfig(cfg *WithdrawalConfig) error
	SaveDepositBonusConfig(cfg *DepositBonusConfig) error
	Seed() error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetAppConfig() (AppConfig, error) {
	var cfg AppConfig
	err := r.db.First(&cfg).Error
	return cfg, err
}

func (r *repository) GetWithdrawalConfig() (WithdrawalConfig, error) {
	var cfg WithdrawalConfig
	err := r.db.First(&cfg).Error
	return cfg, err
}

func (r *repository) GetDepositBonusConfig() (DepositBonusConfig, error) {
	var cfg DepositBonusConfig
	err := r.db.First(&cfg).Error
	return cfg, err
}

func (r *repository) SaveAppConfig(cfg *AppConfig) error {
	cfg.ID = 1
	return r.db.Save(cfg).Error
}

func (r *repository) SaveWithdrawalConfig(cfg *WithdrawalConfig) error {
	cfg.ID = 1
	return r.db.Save(cfg).Error
}

func (r *repository) SaveDepositBonusConfig(cfg *DepositBonusConfig) error {
	cfg.ID = 1
	return r.db.Save(cfg).Error
}

// Seed inserts the singleton rows with defaults when they do not exist yet.
func (r *repository) Seed() error {
	if err := r.db.Where("id = ?", 1).FirstOrCreate(&AppConfig{ID: 1}).Error; err != nil {
		return err
	}

	wcfg := WithdrawalConfig{
		ID:            1,
		MinWithdrawal: 10000,
		FeePercentage: 0.05,
		AllowedDays:   pq.StringArray{"Lunes", "Martes", "Miércoles", "Jueves", "Viernes"},
		StartTime:     "09:00",
		EndTime:       "17:00",
		DailyLimit:    1,
	}
	if err := r.db.Where("id = ?", 1).Attrs(wcfg).FirstOrCreate(&WithdrawalConfig{}).Error; err != nil {
		return err
	}

	return r.db.Where("id = ?", 1).FirstOrCreate(&DepositBonusConfig{ID: 1}).Error
}
