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
	"time"
	"unicode/utf8"

	"github.com/xpect-group/portal/internal/engine/constant"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/internal/pkg/wizard"
	"github.com/xpect-group/portal/pkg/cache"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/log"
)

const adminProfileTTL = 10 * time.Minute

// AdminService serves the single administrator profile through a read-through cache.
type AdminService struct {
	adminRepo repo.IAdminRepository
	profile   *cache.CachedQuery[*model.AdminProfile]
}

func NewAdminService(repos *repo.Repositories, c cache.ICache, conf cache.Redis) *AdminService {
	s := &AdminService{adminRepo: repos.Admin}
	key := conf.KeyPrefix + "admin:profile:" + constant.AdminID
	s.profile = cache.NewCachedQuery(c,
		func(...any) string { return key },
		func(ctx context.Context) (*model.AdminProfile, error) {
			return s.adminRepo.GetOrCreate(ctx)
		},
		cache.WithTTL[*model.AdminProfile](adminProfileTTL),
		cache.WithLogPrefix[*model.AdminProfile]("[AdminProfile]"),
	)
	return s
}

func (s *AdminService) Get(ctx context.Context) (*model.AdminProfile, error) {
	profile, err := s.profile.Get(ctx)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to load admin profile", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return profile, nil
}

func checkBio(bio string) error {
	if utf8.RuneCountInString(bio) > constant.BioMaxLen {
		return http.ValidationFailed.Err().WithFields(map[string]string{"bio": "Bio cannot exceed 500 characters"})
	}
	return nil
}

func (s *AdminService) Update(ctx context.Context, req *model.UpdateAdminProfileReq) (*model.AdminProfile, error) {
	errs := make(map[string]string)
	if strings.TrimSpace(req.Name) == "" {
		errs["name"] = "Name is required"
	}
	if !wizard.IsValidEmail(strings.TrimSpace(req.Email)) {
		errs["email"] = http.InvalidEmail.Msg
	}
	if len(errs) > 0 {
		return nil, http.ValidationFailed.Err().WithFields(errs)
	}
	if err := checkBio(req.Bio); err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name":           strings.TrimSpace(req.Name),
		"email":          normalizeEmail(req.Email),
		"bio":            req.Bio,
		"profilePicture": req.ProfilePicture,
	}
	if req.Role != "" {
		fields["role"] = req.Role
	}
	return s.update(ctx, fields)
}

func (s *AdminService) UpdatePicture(ctx context.Context, req *model.UpdateAdminPictureReq) (*model.AdminProfile, error) {
	return s.update(ctx, map[string]any{"profilePicture": req.ProfilePicture})
}

func (s *AdminService) UpdateBio(ctx context.Context, req *model.UpdateAdminBioReq) (*model.AdminProfile, error) {
	if err := checkBio(req.Bio); err != nil {
		return nil, err
	}
	return s.update(ctx, map[string]any{"bio": req.Bio})
}

func (s *AdminService) update(ctx context.Context, fields map[string]any) (*model.AdminProfile, error) {
	profile, err := s.adminRepo.Update(ctx, fields)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to update admin profile", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	// a stale cached profile expires on its own
	_ = s.profile.Invalidate(ctx)
	return profile, nil
}
