package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/lnking/lnking/app/repository"
	"gorm.io/gorm"
)

// HandleWorkspaceBySlug resolves a workspace by its public slug.
func HandleWorkspaceBySlug(c *fiber.Ctx) error {
	return workspaceBySlug(c, repository.GetGlobalFactory().GetWorkspaceRepository())
}

func workspaceBySlug(c *fiber.Ctx, workspaces repository.WorkspaceRepository) error {
	workspace, err := workspaces.GetBySlug(c.Params("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "workspace not found"})
		}
		log.Errorf("[Workspace] slug lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "workspace lookup failed"})
	}

	return c.JSON(fiber.Map{
		"id":   workspace.ID,
		"name": workspace.Name,
		"slug": workspace.Slug,
		"plan": workspace.Plan,
	})
}

// HandleWorkspaceCustomers lists the customers recorded for a workspace.
func HandleWorkspaceCustomers(c *fiber.Ctx) error {
	factory := repository.GetGlobalFactory()
	return workspaceCustomers(c, factory.GetWorkspaceRepository(), factory.GetCustomerRepository())
}

func workspaceCustomers(c *fiber.Ctx, workspaces repository.WorkspaceRepository, customers repository.CustomerRepository) error {
	workspace, err := workspaces.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "error": "workspace not found"})
		}
		log.Errorf("[Workspace] workspace lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "workspace lookup failed"})
	}

	list, err := customers.ListByWorkspace(workspace.ID)
	if err != nil {
		log.Errorf("[Workspace] customer listing failed for %s: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "customer listing failed"})
	}
	total, err := customers.CountByWorkspace(workspace.ID)
	if err != nil {
		log.Errorf("[Workspace] customer count failed for %s: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "error": "customer listing failed"})
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"total":     total,
		"customers": list,
	})
}
