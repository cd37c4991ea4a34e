// Copyright 2025 Xpect Portal Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/xpect-group/portal/internal/engine/model"
)

func (rt *Router) cleanerRouter(r fiber.Router) {
	cleanerGroup := r.Group("/cleaners")
	{
		// bulk routes come first so "bulk-*" is never read as an id
		cleanerGroup.Patch("/bulk-action", rt.bulkAction)
		cleanerGroup.Patch("/bulk-status", rt.bulkStatus)
		cleanerGroup.Patch("/bulk-update", rt.bulkUpdate)
		cleanerGroup.Post("/bulk-delete", rt.bulkDelete)

		cleanerGroup.Get("/", rt.listCleaners)
		cleanerGroup.Post("/", rt.createCleaner)
		cleanerGroup.Get("/status/:status", rt.listCleanersByStatus)
		cleanerGroup.Get("/:id", rt.getCleaner)
		cleanerGroup.Put("/:id", rt.replaceCleaner)
		cleanerGroup.Patch("/:id", rt.patchCleaner)
		cleanerGroup.Delete("/:id", rt.deleteCleaner)
	}
}

func (rt *Router) listCleaners(c *fiber.Ctx) error {
	cleaners, err := rt.Services.Cleaner.List(c.UserContext(), c.Query("filter"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cleaners, "list cleaners")
}

func (rt *Router) listCleanersByStatus(c *fiber.Ctx) error {
	cleaners, err := rt.Services.Cleaner.ListByStatus(c.UserContext(), c.Params("status"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cleaners, "list cleaners by status")
}

func (rt *Router) getCleaner(c *fiber.Ctx) error {
	cleaner, err := rt.Services.Cleaner.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cleaner, "get cleaner")
}

func (rt *Router) createCleaner(c *fiber.Ctx) error {
	var req model.CreateCleanerReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	cleaner, err := rt.Services.Cleaner.Create(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, cleaner, "create cleaner")
}

func (rt *Router) replaceCleaner(c *fiber.Ctx) error {
	var cleaner model.Cleaner
	if err := parseBody(c, &cleaner); err != nil {
		return fail(c, err)
	}
	updated, err := rt.Services.Cleaner.Replace(c.UserContext(), c.Params("id"), &cleaner)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, updated, "replace cleaner")
}

func (rt *Router) patchCleaner(c *fiber.Ctx) error {
	patch := make(map[string]any)
	if err := parseBody(c, &patch); err != nil {
		return fail(c, err)
	}
	updated, err := rt.Services.Cleaner.Patch(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, updated, "update cleaner")
}

func (rt *Router) deleteCleaner(c *fiber.Ctx) error {
	cleaner, err := rt.Services.Cleaner.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, cleaner, "delete cleaner")
}

func (rt *Router) bulkAction(c *fiber.Ctx) error {
	var req model.BulkActionReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Cleaner.BulkAction(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "bulk action")
}

func (rt *Router) bulkStatus(c *fiber.Ctx) error {
	var req model.BulkStatusReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Cleaner.BulkStatus(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "bulk status")
}

func (rt *Router) bulkUpdate(c *fiber.Ctx) error {
	var req model.BulkUpdateReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Cleaner.BulkUpdate(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "bulk update")
}

func (rt *Router) bulkDelete(c *fiber.Ctx) error {
	var req model.BulkDeleteReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Cleaner.BulkDelete(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "bulk delete")
}
