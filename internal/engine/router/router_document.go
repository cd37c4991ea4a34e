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

func (rt *Router) documentRouter(r fiber.Router) {
	documentGroup := r.Group("/documents/cleaner/:cleanerId")
	{
		documentGroup.Get("/", rt.listDocuments)
		documentGroup.Post("/", rt.addDocument)
		documentGroup.Put("/document/:documentId", rt.updateDocument)
		documentGroup.Delete("/document/:documentId", rt.deleteDocument)
		documentGroup.Get("/document/:documentId/url", rt.documentURL)
	}
}

func (rt *Router) listDocuments(c *fiber.Ctx) error {
	docs, err := rt.Services.Document.List(c.UserContext(), c.Params("cleanerId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, docs, "list documents")
}

func (rt *Router) addDocument(c *fiber.Ctx) error {
	var req model.CreateDocumentReq
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	doc, err := rt.Services.Document.Add(c.UserContext(), c.Params("cleanerId"), &req)
	if err != nil {
		return fail(c, err)
	}
	return created(c, doc, "add document")
}

func (rt *Router) updateDocument(c *fiber.Ctx) error {
	patch := make(map[string]any)
	if err := parseBody(c, &patch); err != nil {
		return fail(c, err)
	}
	doc, err := rt.Services.Document.Update(c.UserContext(), c.Params("cleanerId"), c.Params("documentId"), patch)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, doc, "update document")
}

func (rt *Router) deleteDocument(c *fiber.Ctx) error {
	if err := rt.Services.Document.Delete(c.UserContext(), c.Params("cleanerId"), c.Params("documentId")); err != nil {
		return fail(c, err)
	}
	return ok(c, nil, "delete document")
}

func (rt *Router) documentURL(c *fiber.Ctx) error {
	resp, err := rt.Services.Document.URL(c.UserContext(), c.Params("cleanerId"), c.Params("documentId"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, resp, "document url")
}
