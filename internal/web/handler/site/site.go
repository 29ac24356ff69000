// Package site implements the JSON API on the public site settings.
package site

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/greensocial/green/internal/config"
	"github.com/greensocial/green/internal/db/controller/setting"
	controller "github.com/greensocial/green/internal/db/controller/site"
	"github.com/greensocial/green/internal/web/handler"
	"github.com/greensocial/green/internal/web/middleware/unitofwork"
)

const (
	// Path is the path of the site API below the api group.
	Path = "/site"
)

// Service is the site settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	validator *handler.Validator
}

// Handler is the site settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the site routes on router.
func (s *Service) Init(router fiber.Router, cfg *config.Config) error {
	if router == nil || cfg == nil {
		return errors.New(handler.ErrNilRouterOrCfg)
	}

	s.cfg = cfg
	s.validator = handler.NewValidator()

	router.Get(Path, s.Get)
	router.Put(Path, s.Put)

	return nil
}

// Get returns the stored site settings, or the defaults if none were saved yet.
func (s *Service) Get(c *fiber.Ctx) error {
	settings := controller.Defaults()

	if err := settings.Load(unitofwork.From(c)); err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			return err
		}

		log.Debug().Msg("site settings not found, returning defaults")

		settings = controller.Defaults()
	}

	return c.JSON(settings)
}

// Put validates and stores the site settings.
func (s *Service) Put(c *fiber.Ctx) error {
	var settings controller.Settings
	if err := s.validator.ParseAndValidate(c, &settings); err != nil {
		return err
	}

	if err := settings.Save(unitofwork.From(c)); err != nil {
		return err
	}

	log.Info().
		Str("uow", unitofwork.ID(c)).
		Str("title", settings.Title).
		Msg("site settings saved")

	return c.JSON(settings)
}
