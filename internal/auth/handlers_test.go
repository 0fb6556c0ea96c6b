package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"bluecarbon-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthHandlers(t *testing.T) *Handlers {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Account{}))
	return &Handlers{Service: &Service{DB: db}}
}

func TestRegisterHandler_ReturnsKeyOnce(t *testing.T) {
	h := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/accounts", h.Register)

	payload, _ := json.Marshal(fiber.Map{"name": "Coastal Trust", "email": "ops@coastal.test"})
	req := httptest.NewRequest("POST", "/accounts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Status string `json:"status"`
		Data   struct {
			Account domain.Account `json:"account"`
			APIKey  string         `json:"api_key"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.NotEmpty(t, body.Data.APIKey)
	assert.NotEqual(t, uuid.Nil, body.Data.Account.AccountID)
}

func TestRegisterHandler_MissingNameIs400(t *testing.T) {
	h := setupAuthHandlers(t)
	app := fiber.New()
	app.Post("/accounts", h.Register)

	payload, _ := json.Marshal(fiber.Map{"email": "ops@coastal.test"})
	req := httptest.NewRequest("POST", "/accounts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestMe_RequiresAuth(t *testing.T) {
	h := setupAuthHandlers(t)
	app := fiber.New()
	app.Get("/accounts/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/accounts/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMe_ReturnsAccount(t *testing.T) {
	h := setupAuthHandlers(t)
	accountID := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(AccountLocal, &domain.Account{AccountID: accountID, Name: "Coastal Trust"})
		return c.Next()
	})
	app.Get("/accounts/me", h.Me)

	resp, err := app.Test(httptest.NewRequest("GET", "/accounts/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data domain.Account `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, accountID, body.Data.AccountID)
}
