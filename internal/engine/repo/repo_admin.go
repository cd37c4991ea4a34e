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

package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/xpect-group/portal/internal/engine/constant"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IAdminRepository interface {
	GetOrCreate(ctx context.Context) (*model.AdminProfile, error)
	Update(ctx context.Context, fields map[string]any) (*model.AdminProfile, error)
}

type AdminRepo struct {
	mongoRepo
}

func NewAdminRepo(client *database.MongoClient) IAdminRepository {
	return &AdminRepo{mongoRepo: newMongoRepo(client, model.AdminProfile{}.CollectionName())}
}

// GetOrCreate returns the single admin profile, seeding defaults on first read.
func (r *AdminRepo) GetOrCreate(ctx context.Context) (*model.AdminProfile, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	seed := model.DefaultAdminProfile(time.Now())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var profile model.AdminProfile
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": constant.AdminID}, bson.M{"$setOnInsert": seed}, opts).Decode(&profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load admin profile: %w", translate(err))
	}
	return &profile, nil
}

func (r *AdminRepo) Update(ctx context.Context, fields map[string]any) (*model.AdminProfile, error) {
	if _, err := r.GetOrCreate(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile model.AdminProfile
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"id": constant.AdminID}, bson.M{"$set": set}, opts).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to update admin profile: %w", translate(err))
	}
	return &profile, nil
}
