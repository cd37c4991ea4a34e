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

func (rt *Router) invitationRouter(r fiber.Router, session, owner fiber.Handler) {
	invitationGroup := r.Group("/invitations")
	{
		// employee, before a session exists
		invitationGroup.Post("/verify-otp", rt.verifyOtp)
		invitationGroup.Post("/resend-otp", rt.resendOtpByToken)
		invitationGroup.Post("/verify-token", rt.verifyToken)

		invitationGroup.Post("/send", rt.sendInvitation)
		invitationGroup.Get("/", rt.listInvitations)
		invitationGroup.Post("/:id/resend-otp", rt.resendOtp)
		invitationGroup.Patch("/:id/complete", rt.completeInvitation)
		invitationGroup.Delete("/:id", rt.deleteInvitation)

		invitationGroup.Post("/:inviteToken/progress", session, owner, rt.saveProgress)
		invitationGroup.Get("/:inviteToken/progress", session, owner, rt.loadProgress)
		invitationGroup.Delete("/:inviteToken/progress", session, owner, rt.clearProgress)

		invitationGroup.Get("/:inviteToken", rt.getInvitation)
	}
}

func (rt *Router) sendInvitation(c *fiber.Ctx) error {
	var req model.SendInvitationReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	view, err := rt.Services.Invitation.Send(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, view, "send invitation")
}

func (rt *Router) listInvitations(c *fiber.Ctx) error {
	views, err := rt.Services.Invitation.List(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, views, "list invitations")
}

func (rt *Router) getInvitation(c *fiber.Ctx) error {
	view, err := rt.Services.Invitation.GetByToken(c.UserContext(), c.Params("inviteToken"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, view, "get invitation")
}

func (rt *Router) verifyOtp(c *fiber.Ctx) error {
	var req model.VerifyOtpReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Invitation.VerifyOtp(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "verify otp")
}

func (rt *Router) resendOtp(c *fiber.Ctx) error {
	if err := rt.Services.Invitation.ResendOtp(c.UserContext(), c.Params("id")); err != nil {
		return fail(c, err)
	}
	return ok(c, nil, "resend otp")
}

func (rt *Router) resendOtpByToken(c *fiber.Ctx) error {
	var req model.ResendOtpReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := rt.Services.Invitation.ResendOtpByToken(c.UserContext(), req.InviteToken); err != nil {
		return fail(c, err)
	}
	return ok(c, nil, "resend otp")
}

func (rt *Router) completeInvitation(c *fiber.Ctx) error {
	var req model.CompleteInvitationReq
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return fail(c, err)
		}
	}
	view, err := rt.Services.Invitation.Complete(c.UserContext(), c.Params("id"), req.OnboardingProgress)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, view, "complete invitation")
}

func (rt *Router) verifyToken(c *fiber.Ctx) error {
	var req model.VerifyTokenReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Invitation.VerifyToken(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "verify token")
}

func (rt *Router) deleteInvitation(c *fiber.Ctx) error {
	view, err := rt.Services.Invitation.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, view, "delete invitation")
}

func (rt *Router) saveProgress(c *fiber.Ctx) error {
	var req model.SaveProgressReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	resp, err := rt.Services.Progress.Save(c.UserContext(), c.Params("inviteToken"), &req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "save progress")
}

func (rt *Router) loadProgress(c *fiber.Ctx) error {
	resp, err := rt.Services.Progress.Load(c.UserContext(), c.Params("inviteToken"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "load progress")
}

func (rt *Router) clearProgress(c *fiber.Ctx) error {
	if err := rt.Services.Progress.Clear(c.UserContext(), c.Params("inviteToken")); err != nil {
		return fail(c, err)
	}
	return ok(c, nil, "clear progress")
}
