// Package site stores the public site settings as one JSON document.
package site

import (
	"github.com/greensocial/green/internal/db/controller/setting"
	"github.com/greensocial/green/internal/db/uow"
)

const (
	// SettingKeySite is the key used to store the site settings in the database.
	SettingKeySite = "site"

	defaultPageSize = 20
)

type (
	// Settings represents the public site configuration.
	Settings struct {
		Title            string `json:"title"            validate:"required,max=255"`
		Description      string `json:"description"      validate:"max=1024"`
		RegistrationOpen bool   `json:"registrationOpen"`
		PageSize         int    `json:"pageSize"         validate:"min=1,max=100"`
	}
)

// Defaults returns the settings seeded into an empty database.
func Defaults() Settings {
	return Settings{
		Title:            "Green",
		Description:      "A small social network",
		RegistrationOpen: true,
		PageSize:         defaultPageSize,
	}
}

// Load loads the site settings from the database.
func (s *Settings) Load(u *uow.UnitOfWork) error {
	return setting.LoadJSON(u, SettingKeySite, s)
}

// Save saves the site settings to the database.
func (s *Settings) Save(u *uow.UnitOfWork) error {
	return setting.SaveJSON(u, SettingKeySite, s)
}
