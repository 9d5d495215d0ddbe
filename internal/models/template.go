package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Template is a reusable character-sheet schema: a name plus an ordered
// set of user-defined fields.
type Template struct {
	ID         uint        `gorm:"primaryKey"`
	Name       string      `gorm:"type:varchar(100);not null"`
	Fields     []Field     `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	Characters []Character `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time   `gorm:"autoCreateTime"`
	UpdatedAt  time.Time   `gorm:"autoUpdateTime"`
}

func (t *Template) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(t.Name) == "" {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Template) TableName() string {
	return "templates"
}

// Field is one typed custom attribute definition belonging to a Template.
// The type is fixed at creation; existing values are never migrated.
type Field struct {
	ID         uint      `gorm:"primaryKey"`
	TemplateID uint      `gorm:"not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Type       string    `gorm:"type:varchar(20);not null"`
	Values     []Value   `gorm:"foreignKey:FieldID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Field type constants
const (
	FieldTypeText     = "texto"
	FieldTypeInteger  = "inteiro"
	FieldTypeBoolean  = "booleano"
	FieldTypeLongText = "texto_longo"
)

// ValidFieldType reports whether tipo is one of the recognized field types.
func ValidFieldType(tipo string) bool {
	switch tipo {
	case FieldTypeText, FieldTypeInteger, FieldTypeBoolean, FieldTypeLongText:
		return true
	}
	return false
}

func (f *Field) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(f.Name) == "" {
		return gorm.ErrInvalidData
	}
	if !ValidFieldType(f.Type) {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Field) TableName() string {
	return "fields"
}
