package services

import (
	"strconv"
	"strings"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/repositories"
)

// FormValues is a flattened view of a submitted form: one value per key,
// absent keys read as "". http.Request.FormValue has the same shape.
type FormValues map[string]string

func (f FormValues) Get(key string) string {
	return f[key]
}

// FieldFormKey is the form input name carrying the value for one dynamic
// field, e.g. campo_12 for the field with id 12.
func FieldFormKey(fieldID uint) string {
	return "campo_" + strconv.FormatUint(uint64(fieldID), 10)
}

type SheetService struct {
	templateRepo  *repositories.TemplateRepository
	characterRepo *repositories.CharacterRepository
}

func NewSheetService(templateRepo *repositories.TemplateRepository, characterRepo *repositories.CharacterRepository) *SheetService {
	return &SheetService{
		templateRepo:  templateRepo,
		characterRepo: characterRepo,
	}
}

// CreateCharacter builds a character from a submitted sheet form and
// persists it with one value row per current template field, atomically.
func (s *SheetService) CreateCharacter(templateID uint, form FormValues) (*models.Character, error) {
	tmpl, err := s.templateRepo.GetTemplateByID(templateID)
	if err != nil {
		return nil, err
	}

	character := &models.Character{
		TemplateID: tmpl.ID,
		Name:       characterName(form.Get("nome")),
		Race:       form.Get("raca"),
		Class:      form.Get("classe"),
		Level:      coerceLevel(form.Get("nivel")),
		PlayerName: form.Get("nome_jogador"),
	}

	for _, field := range tmpl.Fields {
		character.Values = append(character.Values, models.Value{
			FieldID:   field.ID,
			TextValue: encodeFormField(field, form),
		})
	}

	if err := s.characterRepo.CreateCharacter(character); err != nil {
		return nil, err
	}
	return character, nil
}

// UpdateCharacter applies the submitted form to an existing character:
// fixed attributes are overwritten and every current template field is
// reconciled (update the stored value if a row exists, insert otherwise).
func (s *SheetService) UpdateCharacter(id uint, form FormValues) (*models.Character, error) {
	character, err := s.characterRepo.GetCharacterByID(id)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.templateRepo.GetTemplateByID(character.TemplateID)
	if err != nil {
		return nil, err
	}

	character.Name = characterName(form.Get("nome"))
	character.Race = form.Get("raca")
	character.Class = form.Get("classe")
	character.Level = coerceLevel(form.Get("nivel"))
	character.PlayerName = form.Get("nome_jogador")

	values := make(map[uint]string, len(tmpl.Fields))
	for _, field := range tmpl.Fields {
		values[field.ID] = encodeFormField(field, form)
	}

	if err := s.characterRepo.UpdateCharacter(character, values); err != nil {
		return nil, err
	}

	return s.characterRepo.GetCharacterByID(id)
}

func encodeFormField(field models.Field, form FormValues) string {
	// Values are stored exactly as submitted; rendering escapes them.
	return EncodeFieldValue(field.Type, form.Get(FieldFormKey(field.ID)))
}

// characterName applies the blank-name fallback: a sheet is never rejected
// for a missing name, it just gets the placeholder.
func characterName(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return models.DefaultCharacterName
	}
	return raw
}

// coerceLevel parses the submitted level, silently falling back to the
// default on anything that is not an integer.
func coerceLevel(raw string) int {
	level, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return models.DefaultCharacterLevel
	}
	return level
}
