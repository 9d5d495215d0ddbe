// Imports characters in bulk from an XLSX workbook. The first row holds
// column headers: the fixed ones (nome, raca, classe, nivel, nome_jogador)
// plus one column per template field, matched by field name.
//
// Usage: go run ./scripts/import_personagens <modelo_id> <arquivo.xlsx>
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"

	"github.com/fichasrpg/fichas/internal/config"
	"github.com/fichasrpg/fichas/internal/database"
	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/repositories"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/pkg/logger"
)

func main() {
	if len(os.Args) != 3 {
		log.Fatal("usage: import_personagens <modelo_id> <arquivo.xlsx>")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	logger.Init()
	defer logger.Sync()

	templateID, err := strconv.ParseUint(os.Args[1], 10, 32)
	if err != nil {
		log.Fatalf("invalid modelo_id %q", os.Args[1])
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	templateRepo := repositories.NewTemplateRepository(db)
	characterRepo := repositories.NewCharacterRepository(db)
	sheets := services.NewSheetService(templateRepo, characterRepo)

	tmpl, err := templateRepo.GetTemplateByID(uint(templateID))
	if err != nil {
		log.Fatal("template lookup failed:", err)
	}

	f, err := excelize.OpenFile(os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		log.Fatal(err)
	}
	if len(rows) < 2 {
		log.Fatal("workbook has no data rows")
	}

	// Header name -> form key for the service
	keys := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		keys[i] = formKey(tmpl, header)
	}

	imported := 0
	for n, row := range rows[1:] {
		form := services.FormValues{}
		for i, cell := range row {
			if i >= len(keys) || keys[i] == "" {
				continue
			}
			form[keys[i]] = cellValue(tmpl, keys[i], cell)
		}

		character, err := sheets.CreateCharacter(tmpl.ID, form)
		if err != nil {
			fmt.Printf("row %d skipped: %v\n", n+2, err)
			continue
		}
		fmt.Printf("imported %q (id %d)\n", character.Name, character.ID)
		imported++
	}

	fmt.Printf("done: %d characters imported into %q\n", imported, tmpl.Name)
}

func formKey(tmpl *models.Template, header string) string {
	header = strings.TrimSpace(header)
	switch strings.ToLower(header) {
	case "nome", "raca", "classe", "nivel", "nome_jogador":
		return strings.ToLower(header)
	}
	for _, field := range tmpl.Fields {
		if strings.EqualFold(field.Name, header) {
			return services.FieldFormKey(field.ID)
		}
	}
	return ""
}

// cellValue translates spreadsheet cells into the form convention the
// service expects: boolean columns must look like a checked checkbox.
func cellValue(tmpl *models.Template, key, cell string) string {
	for _, field := range tmpl.Fields {
		if services.FieldFormKey(field.ID) != key || field.Type != models.FieldTypeBoolean {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(cell)) {
		case "sim", "yes", "1", "true", "x":
			return "on"
		}
		return ""
	}
	return cell
}
