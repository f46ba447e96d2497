package database

import (
	"context"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"newsdesk/config"
	"newsdesk/models"
)

var (
	usersDB *gorm.DB
	riskDB  *gorm.DB
)

// Init opens both databases and runs migrations. Must be called once at
// startup before any handler runs.
func Init(cfg *config.Config) error {
	var err error

	usersDB, err = gorm.Open(sqlite.Open(cfg.UsersDBPath), &gorm.Config{})
	if err != nil {
		return err
	}
	if err := usersDB.AutoMigrate(
		&models.User{},
		&models.UserIndustry{},
		&models.Alert{},
		&models.Notification{},
		&models.ScheduledReport{},
		&models.ReportRecord{},
		&models.ReportHistory{},
	); err != nil {
		return err
	}

	riskDB, err = gorm.Open(sqlite.Open(cfg.CreditRiskDBPath), &gorm.Config{})
	if err != nil {
		return err
	}
	return riskDB.AutoMigrate(&models.CompanyRecord{})
}

// GetDB returns the users/application database.
func GetDB() *gorm.DB {
	return usersDB
}

// GetRiskDB returns the credit-risk database.
func GetRiskDB() *gorm.DB {
	return riskDB
}

// CompanyStore adapts the credit-risk database to the report generator.
type CompanyStore struct {
	DB *gorm.DB
}

func (s CompanyStore) GetCompanyRecord(ctx context.Context, name string) (*models.CompanyRecord, error) {
	var rec models.CompanyRecord
	if err := s.DB.WithContext(ctx).Where("Company = ?", name).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}
