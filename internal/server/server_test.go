package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fichasrpg/fichas/internal/config"
	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/internal/repositories"
	"github.com/fichasrpg/fichas/internal/services"
	"github.com/fichasrpg/fichas/internal/testutil"
	"github.com/fichasrpg/fichas/pkg/logger"
)

type testEnv struct {
	handler       http.Handler
	templateRepo  *repositories.TemplateRepository
	characterRepo *repositories.CharacterRepository
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	logger.Init()

	db := testutil.NewTestDB(t)
	templateRepo := repositories.NewTemplateRepository(db)
	characterRepo := repositories.NewCharacterRepository(db)
	userRepo := repositories.NewUserRepository(db)
	sheets := services.NewSheetService(templateRepo, characterRepo)

	if cfg == nil {
		cfg = &config.Config{RateLimitPerIP: 1000}
	}
	srv := NewServer(cfg, templateRepo, characterRepo, userRepo, sheets)

	return &testEnv{
		handler:       srv.Routes(),
		templateRepo:  templateRepo,
		characterRepo: characterRepo,
	}
}

func (e *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) seedAdventurer(t *testing.T) (*models.Template, *models.Field) {
	t.Helper()
	tmpl, err := e.templateRepo.CreateTemplate("Aventureiro")
	require.NoError(t, err)
	field, err := e.templateRepo.AddField(tmpl.ID, "Vivo?", models.FieldTypeBoolean)
	require.NoError(t, err)
	return tmpl, field
}

func TestHome_ListsCharacters(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, _ := env.seedAdventurer(t)

	character := &models.Character{TemplateID: tmpl.ID, Name: "Thor", Level: 99}
	require.NoError(t, env.characterRepo.CreateCharacter(character))

	rec := env.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Thor")
	require.Contains(t, rec.Body.String(), "99")
}

func TestCreateTemplate_RedirectsToConfig(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.post(t, "/criar_modelo", url.Values{"nome_modelo": {"Mago"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Contains(t, rec.Header().Get("Location"), "/configurar_modelos?modelo_id=")

	templates, err := env.templateRepo.ListTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 1)
	require.Equal(t, "Mago", templates[0].Name)
}

func TestCreateTemplate_BlankNameBouncesBack(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.post(t, "/criar_modelo", url.Values{"nome_modelo": {"   "}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/configurar_modelos", rec.Header().Get("Location"))

	templates, err := env.templateRepo.ListTemplates()
	require.NoError(t, err)
	require.Empty(t, templates)
}

func TestConfigureTemplates_ExpandsSelected(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, _ := env.seedAdventurer(t)

	rec := env.get(t, "/configurar_modelos?modelo_id=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), tmpl.Name)
	require.Contains(t, rec.Body.String(), "Vivo?")
}

func TestAddField_UnknownTypeBouncesBack(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, _ := env.seedAdventurer(t)

	rec := env.post(t, "/adicionar_campo", url.Values{
		"modelo_id":  {"1"},
		"nome_campo": {"Mana"},
		"tipo_campo": {"data"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	full, err := env.templateRepo.GetTemplateByID(tmpl.ID)
	require.NoError(t, err)
	require.Len(t, full.Fields, 1, "invalid field must not be created")
}

func TestNewCharacter_TwoPhaseFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	_, field := env.seedAdventurer(t)

	// Phase 1: no template chosen yet
	rec := env.get(t, "/novo")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Escolha o modelo")

	// Phase 2: template chosen, empty sheet form
	rec = env.get(t, "/novo?modelo_id=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), services.FieldFormKey(field.ID))

	// A post without the save marker is still the form phase
	rec = env.post(t, "/novo", url.Values{"modelo_id": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "salvar_ficha")

	// Phase 3: save
	rec = env.post(t, "/novo", url.Values{
		"modelo_id":                     {"1"},
		"salvar_ficha":                  {"1"},
		"nome":                          {"Thor"},
		"nivel":                         {"99"},
		services.FieldFormKey(field.ID): {"on"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "/?abrir=1", "saved view must point the outer page at the edit view")

	characters, err := env.characterRepo.ListCharacters()
	require.NoError(t, err)
	require.Len(t, characters, 1)

	stored, err := env.characterRepo.GetCharacterByID(characters[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Thor", stored.Name)
	require.Equal(t, "Yes", stored.ValueFor(field.ID))
}

func TestNewCharacter_MissingTemplateBouncesBack(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.post(t, "/novo", url.Values{
		"modelo_id":    {"42"},
		"salvar_ficha": {"1"},
		"nome":         {"Fantasma"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	characters, err := env.characterRepo.ListCharacters()
	require.NoError(t, err)
	require.Empty(t, characters)
}

func TestLegacySheetRedirect(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/ficha/7")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/editar/7", rec.Header().Get("Location"))
}

func TestEditCharacter_BooleanCheckboxRoundTrip(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, field := env.seedAdventurer(t)

	character := &models.Character{
		TemplateID: tmpl.ID,
		Name:       "Thor",
		Level:      1,
		Values:     []models.Value{{FieldID: field.ID, TextValue: "Yes"}},
	}
	require.NoError(t, env.characterRepo.CreateCharacter(character))

	// Stored Yes renders a checked checkbox
	rec := env.get(t, "/editar/1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "checked")

	// Submitting without the checkbox flips it to No
	rec = env.post(t, "/editar/1", url.Values{"nome": {"Thor"}, "nivel": {"1"}})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := env.characterRepo.GetCharacterByID(1)
	require.NoError(t, err)
	require.Equal(t, "No", stored.ValueFor(field.ID))

	// And the form no longer shows it checked
	rec = env.get(t, "/editar/1")
	require.NotContains(t, rec.Body.String(), `checked>`)
}

func TestEditCharacter_NotFoundBouncesHome(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/editar/42")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}

func TestDeleteCharacter(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, _ := env.seedAdventurer(t)

	character := &models.Character{TemplateID: tmpl.ID, Name: "Thor", Level: 1}
	require.NoError(t, env.characterRepo.CreateCharacter(character))

	rec := env.get(t, "/deletar/1")
	require.Equal(t, http.StatusOK, rec.Code)

	characters, err := env.characterRepo.ListCharacters()
	require.NoError(t, err)
	require.Empty(t, characters)
}

func TestDeleteTemplate_TakesCharactersAlong(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, _ := env.seedAdventurer(t)

	character := &models.Character{TemplateID: tmpl.ID, Name: "Thor", Level: 1}
	require.NoError(t, env.characterRepo.CreateCharacter(character))

	rec := env.post(t, "/deletar_modelo", url.Values{"id_modelo": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	characters, err := env.characterRepo.ListCharacters()
	require.NoError(t, err)
	require.Empty(t, characters)
}

func TestExportCharacter_XLSXDownload(t *testing.T) {
	env := newTestEnv(t, nil)
	tmpl, field := env.seedAdventurer(t)

	character := &models.Character{
		TemplateID: tmpl.ID,
		Name:       "Thor",
		Level:      99,
		Values:     []models.Value{{FieldID: field.ID, TextValue: "Yes"}},
	}
	require.NoError(t, env.characterRepo.CreateCharacter(character))

	rec := env.get(t, "/exportar/1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "spreadsheetml")
	require.Contains(t, rec.Header().Get("Content-Disposition"), "ficha_1.xlsx")
	require.NotZero(t, rec.Body.Len())
}

func TestAuthGate(t *testing.T) {
	cfg := &config.Config{
		RateLimitPerIP: 1000,
		AuthEnabled:    true,
		JWTSecret:      "this_is_a_test_secret_key_with_32_chars_minimum",
	}
	env := newTestEnv(t, cfg)

	// Anonymous requests bounce to the login page
	rec := env.get(t, "/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))

	// Register, then log in
	rec = env.post(t, "/register", url.Values{
		"nome":  {"Thor"},
		"email": {"thor@asgard.example"},
		"senha": {"mjolnir123"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.post(t, "/login", url.Values{
		"email": {"thor@asgard.example"},
		"senha": {"mjolnir123"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	var session *http.Cookie
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "sessao" {
			session = cookie
		}
	}
	require.NotNil(t, session, "login must set the session cookie")

	// The cookie opens the gate
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	req.AddCookie(session)
	rec2 := httptest.NewRecorder()
	env.handler.ServeHTTP(rec2, req)
	require.Equal(t, http.StatusOK, rec2.Code)
}

func TestAuthDisabled_LoginRedirectsHome(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.get(t, "/login")
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
}
