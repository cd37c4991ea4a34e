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

func (rt *Router) adminRouter(r fiber.Router) {
	adminGroup := r.Group("/admin/profile")
	{
		adminGroup.Get("/", rt.getAdminProfile)
		adminGroup.Put("/", rt.updateAdminProfile)
		adminGroup.Patch("/picture", rt.updateAdminPicture)
		adminGroup.Patch("/bio", rt.updateAdminBio)
	}
}

func (rt *Router) getAdminProfile(c *fiber.Ctx) error {
	profile, err := rt.Services.Admin.Get(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, profile, "get admin profile")
}

func (rt *Router) updateAdminProfile(c *fiber.Ctx) error {
	var req model.UpdateAdminProfileReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	profile, err := rt.Services.Admin.Update(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, profile, "update admin profile")
}

func (rt *Router) updateAdminPicture(c *fiber.Ctx) error {
	var req model.UpdateAdminPictureReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	profile, err := rt.Services.Admin.UpdatePicture(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, profile, "update admin picture")
}

func (rt *Router) updateAdminBio(c *fiber.Ctx) error {
	var req model.UpdateAdminBioReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	profile, err := rt.Services.Admin.UpdateBio(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, profile, "update admin bio")
}
