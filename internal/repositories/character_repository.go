package repositories

import (
	"gorm.io/gorm"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/pkg/errors"
)

type CharacterRepository struct {
	db *gorm.DB
}

func NewCharacterRepository(db *gorm.DB) *CharacterRepository {
	return &CharacterRepository{db: db}
}

// CreateCharacter persists a character together with its value rows as a
// single transaction: either everything lands or nothing does.
func (r *CharacterRepository) CreateCharacter(character *models.Character) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(character).Error
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to create character")
	}
	return nil
}

// GetCharacterByID retrieves a character with its stored values
func (r *CharacterRepository) GetCharacterByID(id uint) (*models.Character, error) {
	var character models.Character
	result := r.db.Preload("Values").First(&character, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "character not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get character")
	}

	return &character, nil
}

// ListCharacters returns id, name and level for the sidebar, in creation order
func (r *CharacterRepository) ListCharacters() ([]models.Character, error) {
	var characters []models.Character
	err := r.db.Select("id", "name", "level").Order("id").Find(&characters).Error
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list characters")
	}
	return characters, nil
}

// UpdateCharacter saves the fixed header attributes and reconciles the
// value rows against the given field values, all in one transaction.
func (r *CharacterRepository) UpdateCharacter(character *models.Character, values map[uint]string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(character).Updates(map[string]interface{}{
			"name":        character.Name,
			"race":        character.Race,
			"class":       character.Class,
			"level":       character.Level,
			"player_name": character.PlayerName,
		}).Error; err != nil {
			return err
		}
		return reconcileValues(tx, character.ID, values)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to update character")
	}
	return nil
}

// ReconcileValues upserts one value row per field: existing rows are
// updated in place, missing ones inserted. Fields added to the template
// after a character's creation gain their row here, on the next edit.
func (r *CharacterRepository) ReconcileValues(characterID uint, values map[uint]string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return reconcileValues(tx, characterID, values)
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to reconcile values")
	}
	return nil
}

func reconcileValues(tx *gorm.DB, characterID uint, values map[uint]string) error {
	for fieldID, text := range values {
		var existing models.Value
		result := tx.Where("character_id = ? AND field_id = ?", characterID, fieldID).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			value := models.Value{
				CharacterID: characterID,
				FieldID:     fieldID,
				TextValue:   text,
			}
			if err := tx.Create(&value).Error; err != nil {
				return err
			}
			continue
		}
		if result.Error != nil {
			return result.Error
		}

		if err := tx.Model(&existing).Update("text_value", text).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteCharacter removes a character; its values cascade away with it
func (r *CharacterRepository) DeleteCharacter(id uint) error {
	var character models.Character
	result := r.db.First(&character, id)
	if result.Error == gorm.ErrRecordNotFound {
		return errors.New(errors.ErrCodeNotFound, "character not found")
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get character")
	}

	if err := r.db.Delete(&character).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to delete character")
	}
	return nil
}
