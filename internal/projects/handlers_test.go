package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bluecarbon-backend/internal/auth"
	"bluecarbon-backend/internal/database"
	"bluecarbon-backend/internal/domain"
	"bluecarbon-backend/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupProjectsTest(t *testing.T) (*Handlers, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	owner := uuid.New()
	l, err := ledger.Open(db, owner)
	require.NoError(t, err)
	return &Handlers{Ledger: l}, owner
}

// asAccount injects an authenticated account the way the auth middleware
// would after resolving a bearer key.
func asAccount(accountID uuid.UUID) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(auth.AccountLocal, &domain.Account{AccountID: accountID})
		return c.Next()
	}
}

func jsonReq(method, target string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRegister_RequiresAuth(t *testing.T) {
	h, _ := setupProjectsTest(t)
	app := fiber.New()
	app.Post("/projects/register", h.Register)

	resp, err := app.Test(jsonReq("POST", "/projects/register", fiber.Map{
		"project_id": "BC001", "location": "Sundarbans", "area": 120,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_CreatesProject(t *testing.T) {
	h, _ := setupProjectsTest(t)
	caller := uuid.New()
	app := fiber.New()
	app.Use(asAccount(caller))
	app.Post("/projects/register", h.Register)

	resp, err := app.Test(jsonReq("POST", "/projects/register", fiber.Map{
		"project_id": "BC001", "location": "Sundarbans", "area": 120,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Status string         `json:"status"`
		Data   domain.Project `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, "BC001", body.Data.ProjectID)
	assert.Equal(t, caller, body.Data.OwnerID)
	assert.True(t, body.Data.IsActive)
	assert.False(t, body.Data.IsVerified)
}

func TestRegister_ValidationErrorIs400(t *testing.T) {
	h, _ := setupProjectsTest(t)
	app := fiber.New()
	app.Use(asAccount(uuid.New()))
	app.Post("/projects/register", h.Register)

	// Zero area is rejected by the ledger.
	resp, err := app.Test(jsonReq("POST", "/projects/register", fiber.Map{
		"project_id": "BC001", "location": "Sundarbans", "area": 0,
	}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRegister_DuplicateIs409(t *testing.T) {
	h, _ := setupProjectsTest(t)
	app := fiber.New()
	app.Use(asAccount(uuid.New()))
	app.Post("/projects/register", h.Register)

	payload := fiber.Map{"project_id": "BC001", "location": "Sundarbans", "area": 120}
	resp, err := app.Test(jsonReq("POST", "/projects/register", payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(jsonReq("POST", "/projects/register", payload))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestGetByID_UnknownProjectIs409(t *testing.T) {
	h, _ := setupProjectsTest(t)
	app := fiber.New()
	app.Get("/projects/:id", h.GetByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/projects/NOPE", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestVerify_RequiresVerifierRole(t *testing.T) {
	h, _ := setupProjectsTest(t)
	projectOwner := uuid.New()
	_, err := h.Ledger.RegisterProject(context.Background(), projectOwner, "BC001", "Sundarbans", 120)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(asAccount(projectOwner))
	app.Patch("/projects/:id/verify", h.Verify)

	resp, err := app.Test(jsonReq("PATCH", "/projects/BC001/verify", fiber.Map{"verified": true}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestVerify_ByLedgerOwner(t *testing.T) {
	h, owner := setupProjectsTest(t)
	_, err := h.Ledger.RegisterProject(context.Background(), uuid.New(), "BC001", "Sundarbans", 120)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(asAccount(owner))
	app.Patch("/projects/:id/verify", h.Verify)

	resp, err := app.Test(jsonReq("PATCH", "/projects/BC001/verify", fiber.Map{"verified": true}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data domain.Project `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Data.IsVerified)
}

func TestVerify_MissingVerifiedFieldIs400(t *testing.T) {
	h, owner := setupProjectsTest(t)
	app := fiber.New()
	app.Use(asAccount(owner))
	app.Patch("/projects/:id/verify", h.Verify)

	resp, err := app.Test(jsonReq("PATCH", "/projects/BC001/verify", fiber.Map{}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDeactivate_StrangerIs403(t *testing.T) {
	h, _ := setupProjectsTest(t)
	_, err := h.Ledger.RegisterProject(context.Background(), uuid.New(), "BC001", "Sundarbans", 120)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(asAccount(uuid.New()))
	app.Post("/projects/:id/deactivate", h.Deactivate)

	resp, err := app.Test(jsonReq("POST", "/projects/BC001/deactivate", fiber.Map{}))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestOwned_ListsCallerProjects(t *testing.T) {
	h, _ := setupProjectsTest(t)
	caller := uuid.New()
	ctx := context.Background()
	_, err := h.Ledger.RegisterProject(ctx, caller, "BC001", "Sundarbans", 120)
	require.NoError(t, err)
	_, err = h.Ledger.RegisterProject(ctx, caller, "BC002", "Mida Creek", 45)
	require.NoError(t, err)
	_, err = h.Ledger.RegisterProject(ctx, uuid.New(), "BC003", "Gazi Bay", 80)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(asAccount(caller))
	app.Get("/projects/owned", h.Owned)

	resp, err := app.Test(httptest.NewRequest("GET", "/projects/owned", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			ProjectIDs []string `json:"project_ids"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"BC001", "BC002"}, body.Data.ProjectIDs)
}
