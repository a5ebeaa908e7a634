package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/Inventario-core/internal/interfaces/http"
	"github.com/jhoicas/Inventario-core/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testSecret = "secreto-de-pruebas"
	testIssuer = "inventario-core-test"
)

// buildTestApp arma una app Fiber mínima con una ruta protegida que expone
// lo que el middleware dejó en Locals.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Use(apphttp.AuthMiddleware(testSecret))
	app.Get("/protegida", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"actor_id": apphttp.GetActorID(c),
			"role":     apphttp.GetRole(c),
		})
	})
	return app
}

// tokenForRole genera un token válido para el rol dado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-42", role, testIssuer, 5)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protegida", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoDejaActorEnContexto(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+tokenForRole(t, "bodeguero"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "user-42", payload["actor_id"])
	assert.Equal(t, "bodeguero", payload["role"])
}

func TestAuthMiddleware_SinHeaderRechaza(t *testing.T) {
	app := buildTestApp()
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoInvalidoRechaza(t *testing.T) {
	app := buildTestApp()
	for _, header := range []string{
		"Basic abc123",
		"Bearer",
		"Bearer ",
	} {
		resp := doRequest(t, app, header)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "header %q", header)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_FirmaIncorrectaRechaza(t *testing.T) {
	otro, err := jwt.Generate("otro-secreto", "user-42", "admin", testIssuer, 5)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+otro)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpiradoRechaza(t *testing.T) {
	expirado, err := jwt.Generate(testSecret, "user-42", "admin", testIssuer, -5)
	require.NoError(t, err)

	app := buildTestApp()
	resp := doRequest(t, app, "Bearer "+expirado)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
