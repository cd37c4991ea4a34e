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

package model

import (
	"time"

	"github.com/xpect-group/portal/internal/engine/constant"
)

type AdminProfile struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Email          string    `bson:"email" json:"email"`
	ProfilePicture *string   `bson:"profilePicture" json:"profilePicture"`
	Bio            string    `bson:"bio" json:"bio"`
	Role           string    `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (AdminProfile) CollectionName() string {
	return constant.CollectionAdmin
}

func DefaultAdminProfile(now time.Time) *AdminProfile {
	return &AdminProfile{
		ID:        constant.AdminID,
		Name:      constant.AdminName,
		Email:     "admin@xpectgroup.com",
		Role:      constant.AdminRole,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
