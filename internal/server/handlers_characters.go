package server

import (
	"fmt"
	"net/http"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/pkg/logger"
)

// handleHome renders the outer frame: the sidebar with every character
// (id, name, level) plus the content iframe. The ?abrir= query points the
// frame at a character's edit view after a mutation reload.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	characters, err := s.characterRepo.ListCharacters()
	if err != nil {
		s.renderServerError(w, err)
		return
	}

	frameSrc := "/novo"
	if abrir := r.URL.Query().Get("abrir"); abrir != "" {
		if id, err := parseID(abrir); err == nil {
			frameSrc = fmt.Sprintf("/editar/%d", id)
		}
	}

	s.render(w, "index.html", homeView{
		Characters:  characters,
		FrameSrc:    frameSrc,
		AuthEnabled: s.cfg.AuthEnabled,
	})
}

// handleNewCharacterForm is the two-phase creation entry. Without a
// modelo_id there is nothing to build a form from, so it shows the
// template picker; with one it renders the empty sheet form.
func (s *Server) handleNewCharacterForm(w http.ResponseWriter, r *http.Request) {
	rawID := r.URL.Query().Get("modelo_id")
	if rawID == "" {
		templates, err := s.templateRepo.ListTemplates()
		if err != nil {
			s.renderServerError(w, err)
			return
		}
		s.render(w, "novo_selecionar.html", configView{Templates: templates})
		return
	}

	templateID, err := parseID(rawID)
	if err != nil {
		s.fail(w, r, err, "/novo")
		return
	}
	s.renderNewSheetForm(w, r, templateID)
}

// handleNewCharacterSubmit saves the sheet when the salvar_ficha marker is
// present; otherwise the post is just the template choice and the empty
// form is rendered.
func (s *Server) handleNewCharacterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	templateID, err := parseID(r.FormValue("modelo_id"))
	if err != nil {
		s.fail(w, r, err, "/novo")
		return
	}

	if r.FormValue("salvar_ficha") == "" {
		s.renderNewSheetForm(w, r, templateID)
		return
	}

	character, err := s.sheets.CreateCharacter(templateID, formValues(r))
	if err != nil {
		s.fail(w, r, err, "/novo")
		return
	}

	logger.Info("Character created", "id", character.ID, "name", character.Name)
	s.render(w, "atualizar.html", refreshView{
		RedirectURL: fmt.Sprintf("/?abrir=%d", character.ID),
	})
}

func (s *Server) renderNewSheetForm(w http.ResponseWriter, r *http.Request, templateID uint) {
	tmpl, err := s.templateRepo.GetTemplateByID(templateID)
	if err != nil {
		s.fail(w, r, err, "/novo")
		return
	}

	blank := &models.Character{Level: models.DefaultCharacterLevel}
	s.render(w, "ficha_form.html", sheetFormView{
		IsNew:     true,
		Action:    "/novo",
		Template:  tmpl,
		Character: blank,
		Fields:    buildFieldViews(tmpl, blank),
	})
}

// handleLegacySheet keeps the old /ficha/<id> URLs working.
func (s *Server) handleLegacySheet(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}
	http.Redirect(w, r, fmt.Sprintf("/editar/%d", id), http.StatusFound)
}

func (s *Server) handleEditCharacterForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	character, err := s.characterRepo.GetCharacterByID(id)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	tmpl, err := s.templateRepo.GetTemplateByID(character.TemplateID)
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	s.render(w, "ficha_form.html", sheetFormView{
		Action:    fmt.Sprintf("/editar/%d", character.ID),
		Template:  tmpl,
		Character: character,
		Fields:    buildFieldViews(tmpl, character),
	})
}

func (s *Server) handleEditCharacterSubmit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	if err := r.ParseForm(); err != nil {
		s.renderServerError(w, err)
		return
	}

	character, err := s.sheets.UpdateCharacter(id, formValues(r))
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	logger.Info("Character updated", "id", character.ID, "name", character.Name)
	s.render(w, "atualizar.html", refreshView{
		RedirectURL: fmt.Sprintf("/?abrir=%d", character.ID),
	})
}

func (s *Server) handleDeleteCharacter(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err, "/")
		return
	}

	if err := s.characterRepo.DeleteCharacter(id); err != nil {
		s.fail(w, r, err, "/")
		return
	}

	logger.Info("Character deleted", "id", id)
	s.render(w, "atualizar.html", refreshView{RedirectURL: "/"})
}

// formValues flattens the request form into the service's shape: first
// value per key, absent keys read as "".
func formValues(r *http.Request) services.FormValues {
	form := make(services.FormValues, len(r.PostForm))
	for key, values := range r.PostForm {
		if len(values) > 0 {
			form[key] = values[0]
		}
	}
	return form
}
