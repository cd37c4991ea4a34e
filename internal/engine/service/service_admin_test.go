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

func TestAdminService_GetIsCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.svc.Admin.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Admin", p.Name)
	_, err = f.svc.Admin.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.admin.reads)
}

func TestAdminService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.Admin.Get(ctx)
	require.NoError(t, err)

	pic := "https://cdn.example.com/me.png"
	updated, err := f.svc.Admin.Update(ctx, &model.UpdateAdminProfileReq{Name: " Alex Kerr ", Email: "Alex@XpectGroup.com", Bio: "Runs onboarding", ProfilePicture: &pic})
	require.NoError(t, err)
	assert.Equal(t, "Alex Kerr", updated.Name)
	assert.Equal(t, "alex@xpectgroup.com", updated.Email)

	got, err := f.svc.Admin.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Alex Kerr", got.Name, "updates invalidate the cached profile")
	assert.Equal(t, 2, f.admin.reads)
}

func TestAdminService_UpdateRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	long := strings.Repeat("é", 501)

	tests := []struct {
		name  string
		call  func() error
		field string
	}{
		{"missing name", func() error {
			_, err := f.svc.Admin.Update(ctx, &model.UpdateAdminProfileReq{Email: "a@b.co"})
			return err
		}, "name"},
		{"bad email", func() error {
			_, err := f.svc.Admin.Update(ctx, &model.UpdateAdminProfileReq{Name: "A", Email: "nope"})
			return err
		}, "email"},
		{"long bio", func() error {
			_, err := f.svc.Admin.UpdateBio(ctx, &model.UpdateAdminBioReq{Bio: long})
			return err
		}, "bio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			var biz *http.BizError
			require.ErrorAs(t, err, &biz)
			assert.True(t, http.IsCode(err, http.ValidationFailed))
			assert.Contains(t, biz.Fields, tt.field)
		})
	}

	_, err := f.svc.Admin.UpdateBio(ctx, &model.UpdateAdminBioReq{Bio: strings.Repeat("é", 500)})
	assert.NoError(t, err)
}

func TestAdminService_UpdatePicture(t *testing.T) {
	f := newFixture(t)
	pic := "data:image/png;base64,iVBORw0KGgo="
	p, err := f.svc.Admin.UpdatePicture(context.Background(), &model.UpdateAdminPictureReq{ProfilePicture: &pic})
	require.NoError(t, err)
	require.NotNil(t, p.ProfilePicture)
	assert.Equal(t, pic, *p.ProfilePicture)

	p, err = f.svc.Admin.UpdatePicture(context.Background(), &model.UpdateAdminPictureReq{})
	require.NoError(t, err)
	assert.Nil(t, p.ProfilePicture)
}
