// Package settings implements the JSON API on application settings.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/greensocial/green/internal/config"
	"github.com/greensocial/green/internal/db/controller/setting"
	"github.com/greensocial/green/internal/web/handler"
	"github.com/greensocial/green/internal/web/middleware/unitofwork"
)

const (
	// Path is the path of the settings API below the api group.
	Path = "/settings"

	maxLimit = 1000
)

// ErrInvalidPaging is returned for negative or too large limit/offset values.
var ErrInvalidPaging = fiber.NewError(fiber.StatusBadRequest, "invalid limit or offset")

type (
	createRequest struct {
		Name  string `json:"name"  validate:"required,max=255"`
		Value string `json:"value"`
	}

	updateRequest struct {
		Value string `json:"value"`
	}
)

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	validator *handler.Validator
}

// Handler is the settings handler.
var Handler = Service{} //nolint:gochecknoglobals

// Init registers the settings routes on router. The router must run the
// unitofwork middleware.
func (s *Service) Init(router fiber.Router, cfg *config.Config) error {
	if router == nil || cfg == nil {
		return errors.New(handler.ErrNilRouterOrCfg)
	}

	s.cfg = cfg
	s.validator = handler.NewValidator()

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, s.List)
		r.Post(handler.RouterRootPath, s.Create)
		r.Get("/:"+handler.IDParam, s.Get)
		r.Put("/:"+handler.IDParam, s.Update)
		r.Delete("/:"+handler.IDParam, s.Delete)
	})

	return nil
}

// List returns settings ordered by name. Query parameters: name (prefix),
// limit and offset.
func (s *Service) List(c *fiber.Ctx) error {
	opts := setting.ListOptions{
		Prefix: c.Query("name"),
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}

	if opts.Limit < 0 || opts.Limit > maxLimit || opts.Offset < 0 {
		return ErrInvalidPaging
	}

	list, err := setting.List(unitofwork.From(c), opts)
	if err != nil {
		return err
	}

	return c.JSON(list)
}

// Get returns one setting.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	st, err := setting.GetByID(unitofwork.From(c), id)
	if err != nil {
		return err
	}

	return c.JSON(st)
}

// Create adds a setting and answers 201 with the stored row.
func (s *Service) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := s.validator.ParseAndValidate(c, &req); err != nil {
		return err
	}

	st, err := setting.Create(unitofwork.From(c), req.Name, req.Value)
	if err != nil {
		return err
	}

	log.Info().Str("uow", unitofwork.ID(c)).Str("name", st.Name).Uint64("id", st.ID).Msg("setting created")

	return c.Status(fiber.StatusCreated).JSON(st)
}

// Update replaces the value of a setting.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	var req updateRequest
	if err = s.validator.ParseAndValidate(c, &req); err != nil {
		return err
	}

	st, err := setting.Update(unitofwork.From(c), id, req.Value)
	if err != nil {
		return err
	}

	return c.JSON(st)
}

// Delete removes a setting and answers 204.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c)
	if err != nil {
		return err
	}

	if err = setting.Delete(unitofwork.From(c), id); err != nil {
		return err
	}

	log.Info().Str("uow", unitofwork.ID(c)).Uint64("id", id).Msg("setting deleted")

	return c.SendStatus(fiber.StatusNoContent)
}
