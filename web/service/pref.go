package service

import (
	"salespanel/database"
	"salespanel/database/model"

	"gorm.io/gorm/clause"
)

// PrefExportColumns stores a user's export column selection as a
// comma-separated list of canonical column keys.
const PrefExportColumns = "export_columns"

type PreferenceService struct{}

// GetPref returns the stored value for the key, or "" when unset.
func (s *PreferenceService) GetPref(userId int, key string) (string, error) {
	db := database.GetDB()

	pref := &model.UserPreference{}
	err := db.Model(model.UserPreference{}).
		Where("user_id = ? and pref_key = ?", userId, key).
		First(pref).
		Error
	if database.IsNotFound(err) {
		return "", nil
	} else if err != nil {
		return "", err
	}
	return pref.PrefValue, nil
}

func (s *PreferenceService) SetPref(userId int, key string, value string) error {
	db := database.GetDB()

	pref := &model.UserPreference{
		UserId:    userId,
		PrefKey:   key,
		PrefValue: value,
	}
	return db.Clauses(clause.OnConflict{UpdateAll: true}).Create(pref).Error
}
