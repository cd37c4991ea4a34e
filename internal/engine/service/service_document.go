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
	"fmt"
	"time"

	"github.com/xpect-group/portal/internal/engine/config"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/storage"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/id"
	"github.com/xpect-group/portal/pkg/log"
)

// DocumentService manages the files held on a staff record.
type DocumentService struct {
	cleanerRepo repo.ICleanerRepository
	activity    *ActivityService
	offloader   *storage.Offloader
	conf        *config.Onboarding
	now         Clock
}

func NewDocumentService(repos *repo.Repositories, activity *ActivityService, offloader *storage.Offloader, conf *config.Onboarding) *DocumentService {
	return &DocumentService{
		cleanerRepo: repos.Cleaner,
		activity:    activity,
		offloader:   offloader,
		conf:        conf,
		now:         time.Now,
	}
}

func (s *DocumentService) List(ctx context.Context, cleanerID string) ([]model.Document, error) {
	cleaner, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	if cleaner.Documents == nil {
		return []model.Document{}, nil
	}
	return cleaner.Documents, nil
}

func validDocumentType(t model.DocumentType) bool {
	return t == model.DocumentPDF || t == model.DocumentIMG || t == model.DocumentDOC
}

// store moves an inline upload into object storage when it is configured.
// The document keeps its inline form if the upload fails.
func (s *DocumentService) store(ctx context.Context, cleanerID string, doc *model.Document) {
	if !s.offloader.Enabled() || doc.Stored || !wizard.IsDataURL(doc.FileURL) {
		return
	}
	mediaType, data, err := wizard.DecodeDataURL(doc.FileURL)
	if err != nil {
		return
	}
	file := &wizard.File{Name: doc.FileName, MediaType: mediaType, Data: data}
	keys, err := s.offloader.Offload(ctx, "cleaners/"+cleanerID+"/documents", map[string]*wizard.File{doc.ID: file})
	if err != nil {
		log.WithContext(ctx).Warnw("keeping document inline after upload failure", "cleanerId", cleanerID, "documentId", doc.ID, "error", err)
		return
	}
	doc.FileURL, doc.Stored = keys[doc.ID], true
}

func (s *DocumentService) Add(ctx context.Context, cleanerID string, req *model.CreateDocumentReq) (*model.Document, error) {
	cleaner, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}

	doc := req.Document
	if doc.Name == "" {
		return nil, http.ValidationFailed.Errf("Document name is required")
	}
	if !validDocumentType(doc.Type) {
		return nil, http.ValidationFailed.Errf("type must be one of: PDF, IMG, DOC")
	}
	if doc.ID == "" {
		doc.ID = "doc-" + id.ShortId()
	}
	if _, dup := cleaner.FindDocument(doc.ID); dup != nil {
		return nil, http.ValidationFailed.Errf("Document %s already exists", doc.ID)
	}
	if doc.UploadDate == "" {
		doc.UploadDate = s.now().Format(time.DateOnly)
	}
	if doc.Status == "" {
		doc.Status = model.DocumentPending
	}
	s.store(ctx, cleaner.ID, &doc)

	cleaner.Documents = append(cleaner.Documents, doc)
	cleaner.UpdatedAt = s.now()
	if err := s.cleanerRepo.Replace(ctx, cleaner); err != nil {
		if doc.Stored {
			s.offloader.Discard(ctx, doc.FileURL)
		}
		return nil, mapNotFound(err, http.CleanerNotFound)
	}

	meta := map[string]any{"cleanerName": cleaner.Name, "documentName": doc.Name, "documentId": doc.ID}
	if req.UploadedBy == "" || req.UploadedBy == string(model.ActorEmployee) {
		s.activity.ByEmployee(ctx, cleaner.Email, cleaner.Name, model.ActionDocumentUploaded, model.EntityDocument, doc.ID,
			fmt.Sprintf("%s uploaded %s", cleaner.Name, doc.Name), meta)
	} else {
		s.activity.ByAdmin(ctx, model.ActionDocumentAdded, model.EntityDocument, doc.ID,
			fmt.Sprintf("Admin added new document '%s' for %s", doc.Name, cleaner.Name), meta)
	}
	return &doc, nil
}

func (s *DocumentService) find(ctx context.Context, cleanerID, documentID string) (*model.Cleaner, int, error) {
	cleaner, err := s.cleanerRepo.Get(ctx, cleanerID)
	if err != nil {
		return nil, -1, mapNotFound(err, http.CleanerNotFound)
	}
	i, _ := cleaner.FindDocument(documentID)
	if i < 0 {
		return nil, -1, http.DocumentNotFound.Err()
	}
	return cleaner, i, nil
}

// Update merges patch into the document and logs any review decision.
func (s *DocumentService) Update(ctx context.Context, cleanerID, documentID string, patch map[string]any) (*model.Document, error) {
	cleaner, i, err := s.find(ctx, cleanerID, documentID)
	if err != nil {
		return nil, err
	}
	delete(patch, "id")
	delete(patch, "stored")

	old := cleaner.Documents[i]
	updated, err := mergePatch(&old, patch)
	if err != nil {
		return nil, http.RequestParameterParsingFailed.Wrap(err)
	}
	if !validDocumentType(updated.Type) {
		return nil, http.ValidationFailed.Errf("type must be one of: PDF, IMG, DOC")
	}
	if updated.FileURL != old.FileURL {
		updated.Stored = false
		s.store(ctx, cleaner.ID, updated)
	}

	cleaner.Documents[i] = *updated
	cleaner.UpdatedAt = s.now()
	if err := s.cleanerRepo.Replace(ctx, cleaner); err != nil {
		return nil, mapNotFound(err, http.CleanerNotFound)
	}
	if old.Stored && updated.FileURL != old.FileURL {
		s.offloader.Discard(ctx, old.FileURL)
	}

	if updated.Status != old.Status {
		logDocumentStatus(ctx, s.activity, cleaner, updated, old.Status)
	}
	return updated, nil
}

func (s *DocumentService) Delete(ctx context.Context, cleanerID, documentID string) error {
	cleaner, i, err := s.find(ctx, cleanerID, documentID)
	if err != nil {
		return err
	}
	doc := cleaner.Documents[i]
	cleaner.Documents = append(cleaner.Documents[:i], cleaner.Documents[i+1:]...)
	cleaner.UpdatedAt = s.now()
	if err := s.cleanerRepo.Replace(ctx, cleaner); err != nil {
		return mapNotFound(err, http.CleanerNotFound)
	}
	if doc.Stored {
		s.offloader.Discard(ctx, doc.FileURL)
	}

	s.activity.ByAdmin(ctx, model.ActionDocumentDeleted, model.EntityDocument, doc.ID,
		fmt.Sprintf("Admin deleted document '%s' for %s", doc.Name, cleaner.Name),
		map[string]any{"cleanerName": cleaner.Name, "documentName": doc.Name, "documentId": doc.ID})
	return nil
}

// URL returns a link the admin can open. Stored documents get a presigned
// link; inline documents return their data URL.
func (s *DocumentService) URL(ctx context.Context, cleanerID, documentID string) (*model.DocumentURLResp, error) {
	cleaner, i, err := s.find(ctx, cleanerID, documentID)
	if err != nil {
		return nil, err
	}
	doc := cleaner.Documents[i]

	resp := &model.DocumentURLResp{URL: doc.FileURL}
	if doc.Stored {
		if !s.offloader.Enabled() {
			return nil, http.StorageUnavailable.Err()
		}
		u, err := s.offloader.Presign(ctx, doc.FileURL, s.conf.PresignExpiry)
		if err != nil {
			log.WithContext(ctx).Errorw("failed to presign document", "cleanerId", cleanerID, "documentId", documentID, "error", err)
			return nil, http.InternalError.Wrap(err)
		}
		expiresAt := s.now().Add(s.conf.PresignExpiry)
		resp.URL, resp.ExpiresAt = u, &expiresAt
	}

	s.activity.ByAdmin(ctx, model.ActionDocumentViewed, model.EntityDocument, doc.ID,
		fmt.Sprintf("Admin viewed document '%s' for %s", doc.Name, cleaner.Name),
		map[string]any{"cleanerName": cleaner.Name, "documentName": doc.Name, "documentId": doc.ID})
	return resp, nil
}
