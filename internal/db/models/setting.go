package models

// Setting represents a configuration setting stored in the database.
type Setting struct {
	BaseEntity

	Name  string `gorm:"unique;size:255;not null" json:"name"`
	Value string `gorm:"type:text"                json:"value"`
}

// NewSetting returns an unsaved setting.
func NewSetting(name, value string) *Setting {
	return &Setting{Name: name, Value: value}
}

// String returns the setting name.
func (s Setting) String() string {
	return s.Name
}
