package repositories

import (
	"strings"

	"gorm.io/gorm"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/pkg/errors"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// CreateTemplate creates a new sheet template
func (r *TemplateRepository) CreateTemplate(name string) (*models.Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "template name is required")
	}

	tmpl := &models.Template{Name: name}
	if err := r.db.Create(tmpl).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create template")
	}
	return tmpl, nil
}

// ListTemplates returns all templates in creation order
func (r *TemplateRepository) ListTemplates() ([]models.Template, error) {
	var templates []models.Template
	if err := r.db.Order("id").Find(&templates).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to list templates")
	}
	return templates, nil
}

// GetTemplateByID retrieves a template with its fields in creation order
func (r *TemplateRepository) GetTemplateByID(id uint) (*models.Template, error) {
	var tmpl models.Template
	result := r.db.Preload("Fields", func(db *gorm.DB) *gorm.DB {
		return db.Order("fields.id")
	}).First(&tmpl, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "template not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get template")
	}

	return &tmpl, nil
}

// DeleteTemplate removes a template. The database cascades the delete to
// every field, every character bound to the template, and their values.
func (r *TemplateRepository) DeleteTemplate(id uint) error {
	var tmpl models.Template
	result := r.db.First(&tmpl, id)
	if result.Error == gorm.ErrRecordNotFound {
		return errors.New(errors.ErrCodeNotFound, "template not found")
	}
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get template")
	}

	if err := r.db.Delete(&tmpl).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to delete template")
	}
	return nil
}

// AddField appends a typed field definition to a template
func (r *TemplateRepository) AddField(templateID uint, name, fieldType string) (*models.Field, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New(errors.ErrCodeValidation, "field name is required")
	}
	if !models.ValidFieldType(fieldType) {
		return nil, errors.New(errors.ErrCodeValidation, "unrecognized field type")
	}

	var tmpl models.Template
	result := r.db.First(&tmpl, templateID)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "template not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get template")
	}

	field := &models.Field{
		TemplateID: templateID,
		Name:       name,
		Type:       fieldType,
	}
	if err := r.db.Create(field).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create field")
	}
	return field, nil
}

// GetFieldByID retrieves a single field definition
func (r *TemplateRepository) GetFieldByID(id uint) (*models.Field, error) {
	var field models.Field
	result := r.db.First(&field, id)
	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "field not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get field")
	}
	return &field, nil
}

// DeleteField removes a field definition. Every stored value for that field,
// across all characters of the template, is cascaded away with it.
func (r *TemplateRepository) DeleteField(id uint) error {
	field, err := r.GetFieldByID(id)
	if err != nil {
		return err
	}

	if err := r.db.Delete(field).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeConstraint, "failed to delete field")
	}
	return nil
}
