// Package setting provides name based operations on application settings.
package setting

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/repository"
	"github.com/greensocial/green/internal/db/uow"
)

const (
	nameQueryPattern   = "name = ?"
	prefixQueryPattern = "substr(name, 1, ?) = ?"
)

var (
	// ErrSettingNotFound is returned when a setting is not found.
	ErrSettingNotFound = errors.New("setting not found")
	// ErrSettingNameEmpty is returned when attempting to create/update a setting with an empty name.
	ErrSettingNameEmpty = errors.New("setting name cannot be empty")
	// ErrSettingAlreadyExists is returned when attempting to create a setting that already exists.
	ErrSettingAlreadyExists = errors.New("setting already exists")
	// ErrUnitOfWorkNil is returned when the unit of work is nil.
	ErrUnitOfWorkNil = errors.New("unit of work is nil")
)

// ListOptions narrows down List.
type ListOptions struct {
	Prefix string // only names starting with Prefix, compared literally
	Limit  int    // 0 means no limit
	Offset int
}

func repo(u *uow.UnitOfWork) (*repository.GormRepository[models.Setting], error) {
	if u == nil {
		return nil, ErrUnitOfWorkNil
	}

	return repository.New[models.Setting](u), nil
}

// Get retrieves a setting by its name. The setting is tracked by u.
func Get(u *uow.UnitOfWork, name string) (*models.Setting, error) {
	r, err := repo(u)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	setting, err := r.Table().Where(nameQueryPattern, name).First()
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}

	return setting, nil
}

// GetByID retrieves a setting by its ID. The setting is tracked by u.
func GetByID(u *uow.UnitOfWork, id uint64) (*models.Setting, error) {
	r, err := repo(u)
	if err != nil {
		return nil, err
	}

	setting, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, ErrSettingNotFound
	}

	return setting, nil
}

// GetAll retrieves all settings ordered by name, without tracking them.
func GetAll(u *uow.UnitOfWork) ([]*models.Setting, error) {
	return List(u, ListOptions{})
}

// List retrieves settings ordered by name, without tracking them.
func List(u *uow.UnitOfWork, opts ListOptions) ([]*models.Setting, error) {
	r, err := repo(u)
	if err != nil {
		return nil, err
	}

	q := r.TableNoTracking().Order("name")
	if opts.Prefix != "" {
		q = q.Where(prefixQueryPattern, utf8.RuneCountInString(opts.Prefix), opts.Prefix)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}

	settings, err := q.Find()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = []*models.Setting{}
	}

	return settings, nil
}

// Create creates a new setting in the database.
func Create(u *uow.UnitOfWork, name, value string) (*models.Setting, error) {
	r, err := repo(u)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrSettingNameEmpty
	}

	// Check if setting already exists
	n, err := r.TableNoTracking().Where(nameQueryPattern, name).Count()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, ErrSettingAlreadyExists
	}

	setting := models.NewSetting(name, value)
	if err = r.Insert(setting); err != nil {
		return nil, err
	}

	return setting, nil
}

// Set creates or updates a setting by name (upsert operation).
func Set(u *uow.UnitOfWork, name, value string) (*models.Setting, error) {
	setting, err := Get(u, name)
	if errors.Is(err, ErrSettingNotFound) {
		// Setting doesn't exist, create it
		return Create(u, name, value)
	}
	if err != nil {
		return nil, err
	}

	// Setting exists, update it
	return update(u, setting, value)
}

// Update updates an existing setting by ID.
func Update(u *uow.UnitOfWork, id uint64, value string) (*models.Setting, error) {
	setting, err := GetByID(u, id)
	if err != nil {
		return nil, err
	}

	return update(u, setting, value)
}

// UpdateByName updates an existing setting by name.
func UpdateByName(u *uow.UnitOfWork, name, value string) (*models.Setting, error) {
	setting, err := Get(u, name)
	if err != nil {
		return nil, err
	}

	return update(u, setting, value)
}

func update(u *uow.UnitOfWork, setting *models.Setting, value string) (*models.Setting, error) {
	r, err := repo(u)
	if err != nil {
		return nil, err
	}

	setting.Value = value
	if err = r.Update(setting); err != nil {
		return nil, err
	}

	return setting, nil
}

// Delete deletes a setting by ID.
func Delete(u *uow.UnitOfWork, id uint64) error {
	setting, err := GetByID(u, id)
	if err != nil {
		return err
	}

	return repository.New[models.Setting](u).Delete(setting)
}

// DeleteByName deletes a setting by name.
func DeleteByName(u *uow.UnitOfWork, name string) error {
	setting, err := Get(u, name)
	if err != nil {
		return err
	}

	return repository.New[models.Setting](u).Delete(setting)
}

// LoadJSON decodes the JSON document stored under name into v.
func LoadJSON(u *uow.UnitOfWork, name string, v any) error {
	setting, err := Get(u, name)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(setting.Value), v)
}

// SaveJSON stores v as a JSON document under name.
func SaveJSON(u *uow.UnitOfWork, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	_, err = Set(u, name, string(data))

	return err
}
