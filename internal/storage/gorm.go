package storage

import (
	"dropletbot/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

const (
	keyAuthorizedRoles = "authorized_roles"
	keySavedEmbed      = "saved_embed"
)

type Setting struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(path string) (*GormStore, error) {
	newLogger := gormlogger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		gormlogger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  gormlogger.Error,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: newLogger})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Setting{}); err != nil {
		return nil, fmt.Errorf("error migrating database: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadSettings returns defaults for keys that were never written.
func (s *GormStore) LoadSettings() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	rolesRaw, err := s.getSetting(s.db, keyAuthorizedRoles)
	if err != nil {
		return settings, err
	}
	if rolesRaw != "" {
		var ids []domain.RoleID
		if err := json.Unmarshal([]byte(rolesRaw), &ids); err != nil {
			return settings, fmt.Errorf("error decoding %s: %w", keyAuthorizedRoles, err)
		}
		settings.AuthorizedRoles = domain.NewRoleSet(ids...)
	}

	embedRaw, err := s.getSetting(s.db, keySavedEmbed)
	if err != nil {
		return settings, err
	}
	if embedRaw != "" && embedRaw != "null" {
		settings.Layout = json.RawMessage(embedRaw)
	}

	return settings, nil
}

// SaveSettings replaces the whole record in one transaction.
func (s *GormStore) SaveSettings(settings domain.Settings) error {
	ids := settings.AuthorizedRoles.Sorted()
	rolesRaw, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	embedRaw := "null"
	if len(settings.Layout) > 0 {
		embedRaw = string(settings.Layout)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.setSetting(tx, keyAuthorizedRoles, string(rolesRaw)); err != nil {
			return fmt.Errorf("error saving %s: %w", keyAuthorizedRoles, err)
		}
		if err := s.setSetting(tx, keySavedEmbed, embedRaw); err != nil {
			return fmt.Errorf("error saving %s: %w", keySavedEmbed, err)
		}
		return nil
	})
}

func (s *GormStore) getSetting(db *gorm.DB, key string) (string, error) {
	var setting Setting
	result := db.First(&setting, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", result.Error
	}
	return setting.Value, nil
}

func (s *GormStore) setSetting(db *gorm.DB, key string, value string) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&Setting{Key: key, Value: value}).Error
}
