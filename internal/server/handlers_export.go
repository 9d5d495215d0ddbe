package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/fichasrpg/fichas/pkg/logger"
)

// handleExportCharacter downloads one sheet as an XLSX workbook: the fixed
// header attributes first, then one row per template field with the stored
// value exactly as it would render on the edit form.
func (s *Server) handleExportCharacter(w http.ResponseWriter, r *http.Request) {
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

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Ficha"
	f.SetSheetName("Sheet1", sheet)

	rows := [][]interface{}{
		{"Modelo", tmpl.Name},
		{"Nome", character.Name},
		{"Raça", character.Race},
		{"Classe", character.Class},
		{"Nível", character.Level},
		{"Jogador", character.PlayerName},
		{},
	}
	for _, fv := range buildFieldViews(tmpl, character) {
		rows = append(rows, []interface{}{fv.Name, fv.Display})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			s.renderServerError(w, err)
			return
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			s.renderServerError(w, err)
			return
		}
	}

	filename := fmt.Sprintf("ficha_%d.xlsx", character.ID)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(filename))

	if err := f.Write(w); err != nil {
		logger.Error("Failed to stream XLSX export", "character_id", character.ID, "error", err)
		return
	}

	logger.Info("Character exported", "character_id", character.ID)
}
