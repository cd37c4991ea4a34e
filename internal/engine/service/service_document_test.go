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

package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/pkg/http"
)

func addDocument(t *testing.T, f *fixture, cleanerID string, uploadedBy string) *model.Document {
	t.Helper()
	doc, err := f.svc.Document.Add(context.Background(), cleanerID, &model.CreateDocumentReq{
		Document:   model.Document{Name: "Contract", Type: model.DocumentPDF, FileName: "contract.pdf", FileURL: pdfDataURL},
		UploadedBy: uploadedBy,
	})
	require.NoError(t, err)
	return doc
}

func TestDocumentService_Add(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.staff(t, "Sam Lee", "sam@example.com")

	doc := addDocument(t, f, c.ID, "")
	assert.True(t, strings.HasPrefix(doc.ID, "doc-"))
	assert.Equal(t, "2025-03-10", doc.UploadDate)
	assert.Equal(t, model.DocumentPending, doc.Status)
	assert.False(t, doc.Stored)
	entry := f.activity.last()
	assert.Equal(t, model.ActionDocumentUploaded, entry.ActionType)
	assert.Equal(t, model.ActorEmployee, entry.ActorRole)
	assert.Equal(t, "Sam Lee uploaded Contract", entry.Message)

	addDocument(t, f, c.ID, "admin")
	assert.Equal(t, "Admin added new document 'Contract' for Sam Lee", f.activity.last().Message)

	docs, err := f.svc.Document.List(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = f.svc.Document.Add(ctx, c.ID, &model.CreateDocumentReq{Document: model.Document{Name: "Scan", Type: "TIFF"}})
	assert.EqualError(t, err, "type must be one of: PDF, IMG, DOC")
	_, err = f.svc.Document.Add(ctx, c.ID, &model.CreateDocumentReq{Document: model.Document{Type: model.DocumentPDF}})
	assert.EqualError(t, err, "Document name is required")
	_, err = f.svc.Document.Add(ctx, c.ID, &model.CreateDocumentReq{Document: model.Document{ID: doc.ID, Name: "Copy", Type: model.DocumentPDF}})
	assert.True(t, http.IsCode(err, http.ValidationFailed))
	_, err = f.svc.Document.Add(ctx, "missing", &model.CreateDocumentReq{Document: model.Document{Name: "Contract", Type: model.DocumentPDF}})
	assert.True(t, http.IsCode(err, http.CleanerNotFound))
}

func TestDocumentService_UpdateStatus(t *testing.T) {
	tests := []struct {
		status string
		action model.ActionType
		msg    string
	}{
		{"Verified", model.ActionDocumentVerified, "Admin verified Contract for Sam Lee"},
		{"Rejected", model.ActionDocumentRejected, "Admin rejected Contract for Sam Lee"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			f := newFixture(t)
			c := f.staff(t, "Sam Lee", "sam@example.com")
			doc := addDocument(t, f, c.ID, "admin")

			got, err := f.svc.Document.Update(context.Background(), c.ID, doc.ID, map[string]any{"status": tt.status})
			require.NoError(t, err)
			assert.Equal(t, model.DocumentStatus(tt.status), got.Status)
			entry := f.activity.last()
			assert.Equal(t, tt.action, entry.ActionType)
			assert.Equal(t, tt.msg, entry.Message)
		})
	}
}

func TestDocumentService_UpdateReplacesStoredFile(t *testing.T) {
	f := newFixture(t, withStorage())
	ctx := context.Background()
	c := f.staff(t, "Sam Lee", "sam@example.com")
	doc := addDocument(t, f, c.ID, "admin")
	require.True(t, doc.Stored)
	assert.Equal(t, 1, f.store.Len())
	oldKey := doc.FileURL

	got, err := f.svc.Document.Update(ctx, c.ID, doc.ID, map[string]any{"fileUrl": "data:image/png;base64,iVBORw0KGgo=", "type": "IMG"})
	require.NoError(t, err)
	assert.True(t, got.Stored)
	assert.NotEqual(t, oldKey, got.FileURL)
	assert.Equal(t, 1, f.store.Len(), "the previous object is removed")

	_, err = f.svc.Document.Update(ctx, c.ID, doc.ID, map[string]any{"type": "ZIP"})
	assert.True(t, http.IsCode(err, http.ValidationFailed))
	_, err = f.svc.Document.Update(ctx, c.ID, "doc-missing", map[string]any{"status": "Verified"})
	assert.True(t, http.IsCode(err, http.DocumentNotFound))
}

func TestDocumentService_Delete(t *testing.T) {
	f := newFixture(t, withStorage())
	ctx := context.Background()
	c := f.staff(t, "Sam Lee", "sam@example.com")
	doc := addDocument(t, f, c.ID, "admin")

	require.NoError(t, f.svc.Document.Delete(ctx, c.ID, doc.ID))
	assert.Zero(t, f.store.Len())
	assert.Equal(t, "Admin deleted document 'Contract' for Sam Lee", f.activity.last().Message)

	err := f.svc.Document.Delete(ctx, c.ID, doc.ID)
	assert.True(t, http.IsCode(err, http.DocumentNotFound))
}

func TestDocumentService_URL(t *testing.T) {
	t.Run("inline", func(t *testing.T) {
		f := newFixture(t)
		c := f.staff(t, "Sam Lee", "sam@example.com")
		doc := addDocument(t, f, c.ID, "admin")

		resp, err := f.svc.Document.URL(context.Background(), c.ID, doc.ID)
		require.NoError(t, err)
		assert.Equal(t, pdfDataURL, resp.URL)
		assert.Nil(t, resp.ExpiresAt)
		assert.Equal(t, model.ActionDocumentViewed, f.activity.last().ActionType)
	})

	t.Run("stored", func(t *testing.T) {
		f := newFixture(t, withStorage())
		c := f.staff(t, "Sam Lee", "sam@example.com")
		doc := addDocument(t, f, c.ID, "admin")

		resp, err := f.svc.Document.URL(context.Background(), c.ID, doc.ID)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(resp.URL, "memory:///onboarding/cleaners/"+c.ID), resp.URL)
		require.NotNil(t, resp.ExpiresAt)
		assert.Equal(t, f.now.Add(f.conf.PresignExpiry), *resp.ExpiresAt)
	})

	t.Run("stored without storage", func(t *testing.T) {
		f := newFixture(t)
		c := newStaff("Sam Lee", "sam@example.com")
		c.Documents = []model.Document{{ID: "doc-1", Name: "Passport", Type: model.DocumentIMG, FileURL: "onboarding/x/passport.png", Stored: true}}
		created, err := f.svc.Cleaner.Create(context.Background(), &model.CreateCleanerReq{Cleaner: c})
		require.NoError(t, err)

		_, err = f.svc.Document.URL(context.Background(), created.ID, "doc-1")
		assert.True(t, http.IsCode(err, http.StorageUnavailable))
	})
}
