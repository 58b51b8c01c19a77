package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/lnking/lnking/app/models"
	"github.com/lnking/lnking/app/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeWorkspaceRepo struct {
	workspaces []*models.Workspace
}

func (r *fakeWorkspaceRepo) GetByID(id string) (*models.Workspace, error) {
	for _, ws := range r.workspaces {
		if ws.ID == id {
			return ws, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeWorkspaceRepo) GetBySlug(slug string) (*models.Workspace, error) {
	for _, ws := range r.workspaces {
		if ws.Slug == slug {
			return ws, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeCustomerRepo struct {
	customers []models.Customer
}

func (r *fakeCustomerRepo) ListByWorkspace(workspaceID string) ([]models.Customer, error) {
	var out []models.Customer
	for _, c := range r.customers {
		if c.WorkspaceID == workspaceID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCustomerRepo) CountByWorkspace(workspaceID string) (int64, error) {
	list, _ := r.ListByWorkspace(workspaceID)
	return int64(len(list)), nil
}

func newWorkspaceTestApp(workspaces *fakeWorkspaceRepo, customers *fakeCustomerRepo) *fiber.App {
	app := fiber.New()
	app.Get("/api/v1/workspaces/:slug", func(c *fiber.Ctx) error {
		return workspaceBySlug(c, workspaces)
	})
	app.Get("/api/v1/workspaces/:id/customers", func(c *fiber.Ctx) error {
		return workspaceCustomers(c, workspaces, customers)
	})
	return app
}

var _ repository.WorkspaceRepository = (*fakeWorkspaceRepo)(nil)
var _ repository.CustomerRepository = (*fakeCustomerRepo)(nil)

func TestWorkspaceBySlug(t *testing.T) {
	app := newWorkspaceTestApp(&fakeWorkspaceRepo{workspaces: []*models.Workspace{
		{ID: "a1", Name: "Acme", Slug: "acme", Plan: models.PlanPro},
	}}, &fakeCustomerRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/workspaces/acme", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "a1", out["id"])
	assert.Equal(t, "pro", out["plan"])
}

func TestWorkspaceBySlugNotFound(t *testing.T) {
	app := newWorkspaceTestApp(&fakeWorkspaceRepo{}, &fakeCustomerRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/workspaces/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestWorkspaceCustomers(t *testing.T) {
	app := newWorkspaceTestApp(
		&fakeWorkspaceRepo{workspaces: []*models.Workspace{{ID: "a1", Name: "Acme", Slug: "acme"}}},
		&fakeCustomerRepo{customers: []models.Customer{
			{ID: "cus_1", WorkspaceID: "a1", Email: "ada@example.com"},
			{ID: "cus_2", WorkspaceID: "a1", Email: "obi@example.com"},
			{ID: "cus_3", WorkspaceID: "b2", Email: "other@example.com"},
		}},
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/workspaces/a1/customers", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out struct {
		Success   bool              `json:"success"`
		Total     int64             `json:"total"`
		Customers []models.Customer `json:"customers"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out.Success)
	assert.Equal(t, int64(2), out.Total)
	require.Len(t, out.Customers, 2)
}

func TestWorkspaceCustomersUnknownWorkspace(t *testing.T) {
	app := newWorkspaceTestApp(&fakeWorkspaceRepo{}, &fakeCustomerRepo{})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/workspaces/a1/customers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
