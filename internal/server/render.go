package server

import (
	"html/template"
	"net/http"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/pkg/logger"
	"github.com/fichasrpg/fichas/web"
)

var pageNames = []string{
	"index.html",
	"configurar_modelos.html",
	"novo_selecionar.html",
	"ficha_form.html",
	"atualizar.html",
	"erro.html",
	"login.html",
	"register.html",
}

// parseTemplates compiles every page against the shared layout once, at
// server construction.
func parseTemplates() map[string]*template.Template {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		pages[name] = template.Must(template.ParseFS(
			web.Assets,
			"templates/layout.html",
			"templates/"+name,
		))
	}
	return pages
}

func (s *Server) render(w http.ResponseWriter, page string, data interface{}) {
	tmpl, ok := s.pages[page]
	if !ok {
		logger.Error("Unknown page template", "page", page)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		logger.Error("Failed to render page", "page", page, "error", err)
	}
}

func (s *Server) renderServerError(w http.ResponseWriter, err error) {
	logger.Error("Request failed", "error", err)
	w.WriteHeader(http.StatusInternalServerError)
	s.render(w, "erro.html", nil)
}

// View models

type homeView struct {
	Characters  []models.Character
	FrameSrc    string
	AuthEnabled bool
}

type configView struct {
	Templates []models.Template
	Selected  *models.Template
}

type sheetFormView struct {
	IsNew     bool
	Action    string
	Template  *models.Template
	Character *models.Character
	Fields    []fieldView
}

type fieldView struct {
	ID        uint
	Name      string
	Type      string
	InputName string
	Display   string
	Checked   bool
}

type refreshView struct {
	RedirectURL string
}

type authView struct {
	Error string
}

// buildFieldViews decodes each stored value for display. Fields added to
// the template after the character was created show up empty until the
// next save fills them in.
func buildFieldViews(tmpl *models.Template, character *models.Character) []fieldView {
	views := make([]fieldView, 0, len(tmpl.Fields))
	for _, field := range tmpl.Fields {
		decoded := services.DecodeFieldValue(field.Type, character.ValueFor(field.ID))
		views = append(views, fieldView{
			ID:        field.ID,
			Name:      field.Name,
			Type:      field.Type,
			InputName: services.FieldFormKey(field.ID),
			Display:   decoded.Display(),
			Checked:   decoded.Checked(),
		})
	}
	return views
}
