package daemon

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/greensocial/green/internal/db/controller/site"
	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/repository"
	"github.com/greensocial/green/internal/db/uow"
)

// defaultSettings are inserted into an empty settings table.
func defaultSettings() ([]*models.Setting, error) {
	siteDoc, err := json.Marshal(site.Defaults())
	if err != nil {
		return nil, err
	}

	return []*models.Setting{
		models.NewSetting(site.SettingKeySite, string(siteDoc)),
	}, nil
}

// seed fills an empty settings table in one transaction.
func seed(u *uow.UnitOfWork) error {
	repo := repository.New[models.Setting](u)

	count, err := repo.TableNoTracking().Count()
	if err != nil {
		return err
	}

	if count > 0 {
		return nil
	}

	settings, err := defaultSettings()
	if err != nil {
		return err
	}

	if err = repo.InsertMany(settings); err != nil {
		return err
	}

	log.Info().Str("uow", u.ID()).Int("settings", len(settings)).Msg("seeded default settings")

	return nil
}
