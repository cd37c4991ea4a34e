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
	"github.com/xpect-group/portal/pkg/http/middleware"
)

func (rt *Router) onboardingRouter(r fiber.Router, session, owner fiber.Handler) {
	onboardingGroup := r.Group("/onboarding")
	{
		onboardingGroup.Get("/steps", rt.listSteps)

		onboardingGroup.Get("/:inviteToken/resume", session, owner, rt.resume)
		onboardingGroup.Post("/:inviteToken/validate", session, owner, rt.validateStep)
		onboardingGroup.Post("/:inviteToken/next", session, owner, rt.nextStep)
		onboardingGroup.Post("/:inviteToken/back", session, owner, rt.previousStep)
		onboardingGroup.Post("/:inviteToken/submit", session, owner, rt.submit)
	}
}

func (rt *Router) listSteps(c *fiber.Ctx) error {
	return ok(c, rt.Services.Onboarding.Steps(c.Query("citizenshipStatus"), c.Query("visaType")), "list steps")
}

func (rt *Router) resume(c *fiber.Ctx) error {
	state, err := rt.Services.Onboarding.Resume(c.UserContext(), c.Params("inviteToken"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, state, "resume onboarding")
}

func (rt *Router) validateStep(c *fiber.Ctx) error {
	var req model.WizardStepReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Onboarding.Validate(c.UserContext(), c.Params("inviteToken"), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "validate step")
}

func (rt *Router) nextStep(c *fiber.Ctx) error {
	var req model.WizardStepReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	state, err := rt.Services.Onboarding.Next(c.UserContext(), c.Params("inviteToken"), &req, middleware.SessionFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, state, "next step")
}

func (rt *Router) previousStep(c *fiber.Ctx) error {
	var req model.WizardStepReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	state, err := rt.Services.Onboarding.Back(c.UserContext(), c.Params("inviteToken"), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, state, "previous step")
}

func (rt *Router) submit(c *fiber.Ctx) error {
	var req model.SubmitReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	state, err := rt.Services.Onboarding.Submit(c.UserContext(), c.Params("inviteToken"), &req, middleware.SessionFrom(c))
	if err != nil {
		return fail(c, err)
	}
	return created(c, state, "submit onboarding")
}
