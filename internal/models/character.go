package models

import (
	"time"
)

// DefaultCharacterName is stored when a sheet is submitted with a blank name.
const DefaultCharacterName = "Herói Sem Nome"

// DefaultCharacterLevel is used when the submitted level is missing or
// does not parse as an integer.
const DefaultCharacterLevel = 1

// Character is an instance of a Template: fixed header attributes plus
// one Value per template field.
type Character struct {
	ID         uint      `gorm:"primaryKey"`
	TemplateID uint      `gorm:"not null;index"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Race       string    `gorm:"type:varchar(50)"`
	Class      string    `gorm:"type:varchar(50)"`
	Level      int       `gorm:"default:1"`
	PlayerName string    `gorm:"type:varchar(100)"`
	Values     []Value   `gorm:"foreignKey:CharacterID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Character) TableName() string {
	return "characters"
}

// ValueFor returns the stored text for the given field, or "" when the
// character has no value row for it yet (fields added to the template
// after the character was created).
func (c *Character) ValueFor(fieldID uint) string {
	for i := range c.Values {
		if c.Values[i].FieldID == fieldID {
			return c.Values[i].TextValue
		}
	}
	return ""
}

// Value is the stored textual content for one (Character, Field) pair.
// Text is the canonical storage representation regardless of the field's
// declared type; boolean fields hold the literal strings "Yes"/"No".
type Value struct {
	ID          uint      `gorm:"primaryKey"`
	CharacterID uint      `gorm:"not null;index:idx_character_field,unique"`
	FieldID     uint      `gorm:"not null;index:idx_character_field,unique"`
	TextValue   string    `gorm:"type:varchar(500)"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Value) TableName() string {
	return "values"
}
