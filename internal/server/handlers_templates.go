package server

import (
	"fmt"
	"net/http"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/pkg/logger"
)

const configPath = "/configurar_modelos"

// handleConfigureTemplates shows every template, expanding the one named
// by the modelo_id query with its fields and the add-field form.
func (s *Server) handleConfigureTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := s.templateRepo.ListTemplates()
	if err != nil {
		s.renderServerError(w, err)
		return
	}

	var selected *models.Template
	if rawID := r.URL.Query().Get("modelo_id"); rawID != "" {
		id, err := parseID(rawID)
		if err == nil {
			selected, err = s.templateRepo.GetTemplateByID(id)
		}
		if err != nil {
			// Bad or stale id: fall back to the plain list
			http.Redirect(w, r, configPath, http.StatusSeeOther)
			return
		}
	}

	s.render(w, "configurar_modelos.html", configView{
		Templates: templates,
		Selected:  selected,
	})
}

func (s *Server) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	tmpl, err := s.templateRepo.CreateTemplate(r.FormValue("nome_modelo"))
	if err != nil {
		s.fail(w, r, err, configPath)
		return
	}

	logger.Info("Template created", "id", tmpl.ID, "name", tmpl.Name)
	http.Redirect(w, r, fmt.Sprintf("%s?modelo_id=%d", configPath, tmpl.ID), http.StatusSeeOther)
}

func (s *Server) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	id, err := parseID(r.FormValue("id_modelo"))
	if err != nil {
		s.fail(w, r, err, configPath)
		return
	}

	if err := s.templateRepo.DeleteTemplate(id); err != nil {
		s.fail(w, r, err, configPath)
		return
	}

	logger.Info("Template deleted", "id", id)
	http.Redirect(w, r, configPath, http.StatusSeeOther)
}

func (s *Server) handleAddField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	templateID, err := parseID(r.FormValue("modelo_id"))
	if err != nil {
		s.fail(w, r, err, configPath)
		return
	}
	backTo := fmt.Sprintf("%s?modelo_id=%d", configPath, templateID)

	field, err := s.templateRepo.AddField(templateID, r.FormValue("nome_campo"), r.FormValue("tipo_campo"))
	if err != nil {
		s.fail(w, r, err, backTo)
		return
	}

	logger.Info("Field added", "template_id", templateID, "field_id", field.ID, "type", field.Type)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}

func (s *Server) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	fieldID, err := parseID(r.FormValue("campo_id"))
	if err != nil {
		s.fail(w, r, err, configPath)
		return
	}

	field, err := s.templateRepo.GetFieldByID(fieldID)
	if err != nil {
		s.fail(w, r, err, configPath)
		return
	}
	backTo := fmt.Sprintf("%s?modelo_id=%d", configPath, field.TemplateID)

	if err := s.templateRepo.DeleteField(fieldID); err != nil {
		s.fail(w, r, err, backTo)
		return
	}

	logger.Info("Field deleted", "field_id", fieldID, "template_id", field.TemplateID)
	http.Redirect(w, r, backTo, http.StatusSeeOther)
}
