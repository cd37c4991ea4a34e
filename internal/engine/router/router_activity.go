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

func (rt *Router) activityRouter(r fiber.Router) {
	activityGroup := r.Group("/activity")
	{
		activityGroup.Get("/", rt.listActivities)
		activityGroup.Get("/recent", rt.recentActivities)
		activityGroup.Get("/entity/:entityType/:entityId", rt.entityActivities)
	}
}

func (rt *Router) recentActivities(c *fiber.Ctx) error {
	entries, err := rt.Services.Activity.Recent(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, entries, "recent activities")
}

func (rt *Router) listActivities(c *fiber.Ctx) error {
	page, err := rt.Services.Activity.List(c.UserContext(), model.ActivityQuery{
		ActorRole:  c.Query("actorRole"),
		ActionType: c.Query("actionType"),
		EntityType: c.Query("entityType"),
		EntityID:   c.Query("entityId"),
		Page:       c.QueryInt("page", 1),
		Limit:      c.QueryInt("limit", 0),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, page, "list activities")
}

func (rt *Router) entityActivities(c *fiber.Ctx) error {
	entries, err := rt.Services.Activity.Timeline(c.UserContext(), c.Params("entityType"), c.Params("entityId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, entries, "entity activities")
}
