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

	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IProgressRepository interface {
	Get(ctx context.Context, inviteToken string) (*model.OnboardingProgress, error)
	Upsert(ctx context.Context, progress *model.OnboardingProgress) error
	Delete(ctx context.Context, inviteToken string) error
	CreateIndexes(ctx context.Context) error
}

type ProgressRepo struct {
	mongoRepo
}

func NewProgressRepo(client *database.MongoClient) IProgressRepository {
	return &ProgressRepo{mongoRepo: newMongoRepo(client, model.OnboardingProgress{}.CollectionName())}
}

func (r *ProgressRepo) Get(ctx context.Context, inviteToken string) (*model.OnboardingProgress, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var progress model.OnboardingProgress
	if err := r.collection.FindOne(ctx, bson.M{"inviteToken": inviteToken}).Decode(&progress); err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", translate(err))
	}
	return &progress, nil
}

// Upsert writes the whole record keyed by invite token.
func (r *ProgressRepo) Upsert(ctx context.Context, progress *model.OnboardingProgress) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	progress.UpdatedAt = now
	update := bson.M{
		"$set": bson.M{
			"lastCompletedStep": progress.LastCompletedStep,
			"currentStep":       progress.CurrentStep,
			"formData":          progress.FormData,
			"expiresAt":         progress.ExpiresAt,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"inviteToken": progress.InviteToken}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", translate(err))
	}
	if progress.CreatedAt.IsZero() {
		progress.CreatedAt = now
	}
	return nil
}

func (r *ProgressRepo) Delete(ctx context.Context, inviteToken string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"inviteToken": inviteToken})
	if err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("progress %s: %w", inviteToken, ErrNotFound)
	}
	return nil
}

func (r *ProgressRepo) CreateIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "inviteToken", Value: 1}}, Options: options.Index().SetUnique(true)},
		// the server drops a record as soon as expiresAt is reached
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create progress indexes: %w", err)
	}
	return nil
}
