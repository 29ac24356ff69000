package setting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greensocial/green/internal/db/dbtest"
	"github.com/greensocial/green/internal/db/models"
	"github.com/greensocial/green/internal/db/uow"
)

// setupTestUoW creates a seeded in-memory database and a unit of work on it.
// A nil unit of work is returned when nilUoW is set.
func setupTestUoW(t *testing.T, nilUoW bool, seed ...models.Setting) (*gorm.DB, *uow.UnitOfWork) {
	t.Helper()

	db := dbtest.Open(t)
	dbtest.Seed(t, db, seed...)

	if nilUoW {
		return db, nil
	}

	return db, uow.New(db)
}

func TestGet(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingName   string
		seedData      []models.Setting
		expectedError error
		expectedValue string
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingName:   "test",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful get",
			settingName: "site.title",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
			expectedValue: "My Site",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := Get(u, tc.settingName)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.expectedValue, setting.Value)
				assert.Equal(t, uow.Unchanged, u.State(setting))
			}
		})
	}
}

func TestGetByID(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingID     uint64
		seedData      []models.Setting
		expectedError error
		expectedName  string
		expectedValue string
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingID:     1,
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "setting not found",
			settingID:     999,
			expectedError: ErrSettingNotFound,
		},
		{
			name:      "successful get by id",
			settingID: 1,
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
			expectedName:  "site.title",
			expectedValue: "My Site",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := GetByID(u, tc.settingID)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.expectedName, setting.Name)
				assert.Equal(t, tc.expectedValue, setting.Value)
			}
		})
	}
}

func TestGetAll(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		seedData      []models.Setting
		expectedError error
		expectedNames []string
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty database",
			expectedNames: []string{},
		},
		{
			name: "multiple settings",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
				{Name: "mail.sender", Value: "admin@example.com"},
				{Name: "site.page_size", Value: "100"},
			},
			expectedNames: []string{"mail.sender", "site.page_size", "site.title"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			settings, err := GetAll(u)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, settings)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, settings)

				names := make([]string, 0, len(settings))
				for _, s := range settings {
					names = append(names, s.Name)
					assert.Equal(t, uow.Detached, u.State(s), "GetAll must not track results")
				}

				assert.Equal(t, tc.expectedNames, names)
			}
		})
	}
}

func TestList(t *testing.T) {
	seed := []models.Setting{
		{Name: "site.title", Value: "My Site"},
		{Name: "mail.sender", Value: "admin@example.com"},
		{Name: "site.description", Value: "A site"},
		{Name: "site.page_size", Value: "100"},
		{Name: "smtp_host", Value: "localhost"},
		{Name: "smtpXhost", Value: "localhost"},
		{Name: "Site.title", Value: "Other"},
	}

	testCases := []struct {
		name          string
		opts          ListOptions
		expectedNames []string
	}{
		{
			name:          "no options",
			expectedNames: []string{
				"Site.title", "mail.sender", "site.description", "site.page_size", "site.title", "smtpXhost", "smtp_host",
			},
		},
		{
			name:          "prefix",
			opts:          ListOptions{Prefix: "site."},
			expectedNames: []string{"site.description", "site.page_size", "site.title"},
		},
		{
			name:          "prefix with limit and offset",
			opts:          ListOptions{Prefix: "site.", Limit: 1, Offset: 1},
			expectedNames: []string{"site.page_size"},
		},
		{
			name:          "underscore is not a wildcard",
			opts:          ListOptions{Prefix: "smtp_"},
			expectedNames: []string{"smtp_host"},
		},
		{
			name:          "percent is not a wildcard",
			opts:          ListOptions{Prefix: "%"},
			expectedNames: []string{},
		},
		{
			name:          "prefix is case sensitive",
			opts:          ListOptions{Prefix: "Site."},
			expectedNames: []string{"Site.title"},
		},
		{
			name:          "prefix without matches",
			opts:          ListOptions{Prefix: "auth."},
			expectedNames: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, false, seed...)

			settings, err := List(u, tc.opts)
			require.NoError(t, err)

			names := make([]string, 0, len(settings))
			for _, s := range settings {
				names = append(names, s.Name)
			}

			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestCreate(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingName   string
		settingValue  string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingName:   "test",
			settingValue:  "value",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			settingValue:  "value",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:         "successful create",
			settingName:  "new_setting",
			settingValue: "new_value",
		},
		{
			name:         "duplicate setting",
			settingName:  "site.title",
			settingValue: "Another Site",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
			expectedError: ErrSettingAlreadyExists,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := Create(u, tc.settingName, tc.settingValue)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.settingValue, setting.Value)
				assert.NotZero(t, setting.ID)
			}
		})
	}
}

func TestSet(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingName   string
		settingValue  string
		seedData      []models.Setting
		expectedError error
		expectedRows  int64
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingName:   "test",
			settingValue:  "value",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			settingValue:  "value",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:         "create new setting",
			settingName:  "new_setting",
			settingValue: "new_value",
			expectedRows: 1,
		},
		{
			name:         "update existing setting",
			settingName:  "site.title",
			settingValue: "Updated Site",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
			expectedRows: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := Set(u, tc.settingName, tc.settingValue)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.settingValue, setting.Value)

				// Verify the setting was created or updated in the database
				var dbSetting models.Setting
				err = db.Where("name = ?", tc.settingName).First(&dbSetting).Error
				require.NoError(t, err)
				assert.Equal(t, tc.settingValue, dbSetting.Value)
				assert.Equal(t, tc.expectedRows, dbtest.Count(t, db))
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingID     uint64
		settingValue  string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingID:     1,
			settingValue:  "value",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "setting not found",
			settingID:     999,
			settingValue:  "value",
			expectedError: ErrSettingNotFound,
		},
		{
			name:         "successful update",
			settingID:    1,
			settingValue: "Updated Value",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := Update(u, tc.settingID, tc.settingValue)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingValue, setting.Value)

				var dbSetting models.Setting
				require.NoError(t, db.First(&dbSetting, tc.settingID).Error)
				assert.Equal(t, tc.settingValue, dbSetting.Value)
			}
		})
	}
}

func TestUpdateByName(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingName   string
		settingValue  string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingName:   "test",
			settingValue:  "value",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			settingValue:  "value",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			settingValue:  "value",
			expectedError: ErrSettingNotFound,
		},
		{
			name:         "successful update",
			settingName:  "site.title",
			settingValue: "Updated Site Name",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			setting, err := UpdateByName(u, tc.settingName, tc.settingValue)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, setting)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, setting)
				assert.Equal(t, tc.settingName, setting.Name)
				assert.Equal(t, tc.settingValue, setting.Value)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingID     uint64
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingID:     1,
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "setting not found",
			settingID:     999,
			expectedError: ErrSettingNotFound,
		},
		{
			name:      "successful delete",
			settingID: 1,
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			err := Delete(u, tc.settingID)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)

				// Verify the setting was deleted
				var count int64
				db.Model(&models.Setting{}).Where("id = ?", tc.settingID).Count(&count)
				assert.Zero(t, count)
			}
		})
	}
}

func TestDeleteByName(t *testing.T) {
	testCases := []struct {
		name          string
		nilUoW        bool
		settingName   string
		seedData      []models.Setting
		expectedError error
	}{
		{
			name:          "nil unit of work",
			nilUoW:        true,
			settingName:   "test",
			expectedError: ErrUnitOfWorkNil,
		},
		{
			name:          "empty name",
			settingName:   "",
			expectedError: ErrSettingNameEmpty,
		},
		{
			name:          "setting not found",
			settingName:   "nonexistent",
			expectedError: ErrSettingNotFound,
		},
		{
			name:        "successful delete",
			settingName: "site.title",
			seedData: []models.Setting{
				{Name: "site.title", Value: "My Site"},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db, u := setupTestUoW(t, tc.nilUoW, tc.seedData...)

			err := DeleteByName(u, tc.settingName)

			if tc.expectedError != nil {
				require.Error(t, err)
				require.ErrorIs(t, err, tc.expectedError)
			} else {
				require.NoError(t, err)

				// Verify the setting was deleted
				var count int64
				db.Model(&models.Setting{}).Where("name = ?", tc.settingName).Count(&count)
				assert.Zero(t, count)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	type mail struct {
		Sender string `json:"sender"`
		Port   int    `json:"port"`
	}

	db, u := setupTestUoW(t, false)

	var missing mail
	require.ErrorIs(t, LoadJSON(u, "mail", &missing), ErrSettingNotFound)

	require.NoError(t, SaveJSON(u, "mail", mail{Sender: "admin@example.com", Port: 25}))
	require.NoError(t, SaveJSON(u, "mail", mail{Sender: "admin@example.com", Port: 587}))
	assert.Equal(t, int64(1), dbtest.Count(t, db))

	var loaded mail
	require.NoError(t, LoadJSON(uow.New(db), "mail", &loaded))
	assert.Equal(t, mail{Sender: "admin@example.com", Port: 587}, loaded)

	require.Error(t, SaveJSON(u, "broken", func() {}))

	_, err := Create(u, "garbage", "{not json")
	require.NoError(t, err)
	require.Error(t, LoadJSON(u, "garbage", &loaded))
}

func TestIntegration(t *testing.T) {
	db, u := setupTestUoW(t, false)

	// Create a setting
	setting, err := Create(u, "test_setting", "initial_value")
	require.NoError(t, err)
	require.NotNil(t, setting)
	assert.Equal(t, "test_setting", setting.Name)
	assert.Equal(t, "initial_value", setting.Value)

	// Get the setting by name
	retrieved, err := Get(u, "test_setting")
	require.NoError(t, err)
	assert.Same(t, setting, retrieved)

	// Get the setting by ID
	retrievedByID, err := GetByID(u, setting.ID)
	require.NoError(t, err)
	assert.Same(t, setting, retrievedByID)

	// Update the setting
	updated, err := UpdateByName(u, "test_setting", "updated_value")
	require.NoError(t, err)
	assert.Equal(t, "updated_value", updated.Value)

	// Verify the update from a fresh unit of work
	retrieved, err = Get(uow.New(db), "test_setting")
	require.NoError(t, err)
	assert.Equal(t, "updated_value", retrieved.Value)

	// Test Set (upsert) on existing setting
	upserted, err := Set(u, "test_setting", "upserted_value")
	require.NoError(t, err)
	assert.Equal(t, "upserted_value", upserted.Value)

	// Test Set (upsert) on new setting
	newSetting, err := Set(u, "another_setting", "another_value")
	require.NoError(t, err)
	assert.Equal(t, "another_setting", newSetting.Name)
	assert.Equal(t, "another_value", newSetting.Value)

	// Get all settings
	allSettings, err := GetAll(u)
	require.NoError(t, err)
	assert.Len(t, allSettings, 2)

	// Delete by name
	err = DeleteByName(u, "test_setting")
	require.NoError(t, err)

	// Verify deletion
	_, err = Get(u, "test_setting")
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSettingNotFound)

	// Delete by ID
	err = Delete(u, newSetting.ID)
	require.NoError(t, err)

	// Verify all settings deleted
	allSettings, err = GetAll(u)
	require.NoError(t, err)
	assert.Empty(t, allSettings)
	assert.False(t, u.HasChanges())
}
