package auth_test

import (
	"net/http/httptest"
	"testing"

	"tour-admin/core/middleware/auth"
	"tour-admin/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(key string) *fiber.App {
	app := fiber.New()
	app.Use(rayid.New())
	app.Use(auth.New(auth.Config{ApiKey: key, SkipPaths: []string{"/metrics"}}))
	app.Get("/tour", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendString("m") })
	return app
}

func TestAuth(t *testing.T) {
	app := setupApp("secret")

	tests := []struct {
		name   string
		path   string
		header string
		value  string
		want   int
	}{
		{"Missing Key", "/tour", "", "", fiber.StatusUnauthorized},
		{"Wrong Key", "/tour", "X-API-Key", "nope", fiber.StatusUnauthorized},
		{"Header Key", "/tour", "X-API-Key", "secret", fiber.StatusOK},
		{"Bearer Key", "/tour", "Authorization", "Bearer secret", fiber.StatusOK},
		{"Skipped Path", "/metrics", "", "", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestAuth_Disabled(t *testing.T) {
	app := setupApp("")
	resp, err := app.Test(httptest.NewRequest("GET", "/tour", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRayID(t *testing.T) {
	app := setupApp("")

	resp, err := app.Test(httptest.NewRequest("GET", "/tour", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get(rayid.Header))

	req := httptest.NewRequest("GET", "/tour", nil)
	req.Header.Set(rayid.Header, "fixed")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "fixed", resp.Header.Get(rayid.Header))
}
