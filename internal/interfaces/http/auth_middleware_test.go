package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ops/internal/application/dto"
	apphttp "github.com/jhoicas/warehouse-ops/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/warehouse-ops/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "warehouse-ops-test"
	testTTL       = time.Hour
)

// guardedApp monta /guarded con AuthMiddleware + RequireRole y devuelve la identidad que vio el handler.
func guardedApp(allowed ...string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(allowed...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"user_id":      apphttp.GetUserID(c),
				"role":         apphttp.GetRole(c),
				"warehouse_id": apphttp.GetWarehouseID(c),
			})
		},
	)
	return app
}

func signed(t *testing.T, issuer string, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, issuer, id, testTTL)
	require.NoError(t, err)
	return "Bearer " + tok
}

// tokenForRole firma un token del operador de prueba con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return signed(t, testIssuer, pkgjwt.Identity{UserID: testUserID, Role: role})
}

func get(t *testing.T, app *fiber.App, authHeader string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestRequireRole_Autorizacion(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		role    string
		status  int
		code    string
	}{
		{"admin en ruta destructiva", []string{apphttp.RoleAdmin}, "admin", http.StatusOK, ""},
		{"bodeguero en operaciones de campo", []string{apphttp.RoleAdmin, apphttp.RoleBodeguero}, "bodeguero", http.StatusOK, ""},
		{"rol en mayúsculas", []string{apphttp.RoleAdmin}, "ADMIN", http.StatusOK, ""},
		{"bodeguero en ruta destructiva", []string{apphttp.RoleAdmin}, "bodeguero", http.StatusForbidden, "FORBIDDEN"},
		{"vendedor en operaciones de campo", []string{apphttp.RoleAdmin, apphttp.RoleBodeguero}, "vendedor", http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", []string{apphttp.RoleAdmin}, "", http.StatusUnauthorized, "MISSING_ROLE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, guardedApp(tc.allowed...), tokenForRole(t, tc.role))
			assert.Equal(t, tc.status, status)
			if tc.code != "" {
				var e dto.ErrorResponse
				require.NoError(t, json.Unmarshal(body, &e))
				assert.Equal(t, tc.code, e.Code)
			}
		})
	}
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	cases := []struct {
		name   string
		header func(t *testing.T) string
		code   string
	}{
		{"sin header", func(*testing.T) string { return "" }, "MISSING_TOKEN"},
		{"esquema basic", func(*testing.T) string { return "Basic dXNlcjpwYXNz" }, "INVALID_TOKEN"},
		{"token malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, "INVALID_TOKEN"},
		{"otro emisor", func(t *testing.T) string {
			return signed(t, "otro-emisor", pkgjwt.Identity{UserID: testUserID, Role: "admin"})
		}, "INVALID_TOKEN"},
	}
	app := guardedApp(apphttp.RoleAdmin)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, body := get(t, app, tc.header(t))
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestAuthMiddleware_CargaIdentidadDelOperador(t *testing.T) {
	app := guardedApp(apphttp.RoleBodeguero)
	status, body := get(t, app, signed(t, testIssuer,
		pkgjwt.Identity{UserID: testUserID, Role: "bodeguero", WarehouseID: "wh-1"}))
	require.Equal(t, http.StatusOK, status)

	var got map[string]string
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, testUserID, got["user_id"])
	assert.Equal(t, "bodeguero", got["role"])
	assert.Equal(t, "wh-1", got["warehouse_id"])
}
