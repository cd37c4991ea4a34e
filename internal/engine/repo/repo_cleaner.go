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

type ICleanerRepository interface {
	Create(ctx context.Context, cleaner *model.Cleaner) error
	Get(ctx context.Context, id string) (*model.Cleaner, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByEmailOrID(ctx context.Context, email, id string) (bool, error)
	List(ctx context.Context) ([]*model.Cleaner, error)
	ListByStatus(ctx context.Context, status string) ([]*model.Cleaner, error)
	Replace(ctx context.Context, cleaner *model.Cleaner) error
	Delete(ctx context.Context, id string) error
	UpdateMany(ctx context.Context, ids []string, fields map[string]any) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
	CreateIndexes(ctx context.Context) error
}

type CleanerRepo struct {
	mongoRepo
}

func NewCleanerRepo(client *database.MongoClient) ICleanerRepository {
	return &CleanerRepo{mongoRepo: newMongoRepo(client, model.Cleaner{}.CollectionName())}
}

func (r *CleanerRepo) Create(ctx context.Context, cleaner *model.Cleaner) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	cleaner.CreatedAt = now
	cleaner.UpdatedAt = now
	if cleaner.Documents == nil {
		cleaner.Documents = []model.Document{}
	}
	if _, err := r.collection.InsertOne(ctx, cleaner); err != nil {
		return fmt.Errorf("failed to insert cleaner: %w", translate(err))
	}
	return nil
}

func (r *CleanerRepo) Get(ctx context.Context, id string) (*model.Cleaner, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var cleaner model.Cleaner
	if err := r.collection.FindOne(ctx, bson.M{"id": id}).Decode(&cleaner); err != nil {
		return nil, fmt.Errorf("failed to get cleaner: %w", translate(err))
	}
	return &cleaner, nil
}

func (r *CleanerRepo) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count cleaners: %w", err)
	}
	return n > 0, nil
}

func (r *CleanerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

func (r *CleanerRepo) ExistsByEmailOrID(ctx context.Context, email, id string) (bool, error) {
	return r.exists(ctx, bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"id": id}}})
}

func (r *CleanerRepo) List(ctx context.Context) ([]*model.Cleaner, error) {
	return r.find(ctx, bson.M{})
}

func (r *CleanerRepo) ListByStatus(ctx context.Context, status string) ([]*model.Cleaner, error) {
	return r.find(ctx, bson.M{"verificationStatus": status})
}

func (r *CleanerRepo) find(ctx context.Context, filter bson.M) ([]*model.Cleaner, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list cleaners: %w", err)
	}
	defer cursor.Close(ctx)

	cleaners := make([]*model.Cleaner, 0)
	if err := cursor.All(ctx, &cleaners); err != nil {
		return nil, fmt.Errorf("failed to decode cleaners: %w", err)
	}
	return cleaners, nil
}

// Replace stores the whole record, keeping the original creation time.
func (r *CleanerRepo) Replace(ctx context.Context, cleaner *model.Cleaner) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cleaner.UpdatedAt = time.Now()
	if cleaner.Documents == nil {
		cleaner.Documents = []model.Document{}
	}
	result, err := r.collection.ReplaceOne(ctx, bson.M{"id": cleaner.ID}, cleaner)
	if err != nil {
		return fmt.Errorf("failed to replace cleaner: %w", translate(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cleaner %s: %w", cleaner.ID, ErrNotFound)
	}
	return nil
}

func (r *CleanerRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete cleaner: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("cleaner %s: %w", id, ErrNotFound)
	}
	return nil
}

// UpdateMany sets fields on every listed cleaner and returns how many matched.
func (r *CleanerRepo) UpdateMany(ctx context.Context, ids []string, fields map[string]any) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now()}
	for k, v := range fields {
		set[k] = v
	}
	result, err := r.collection.UpdateMany(ctx, bson.M{"id": bson.M{"$in": ids}}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("failed to update cleaners: %w", err)
	}
	return result.MatchedCount, nil
}

func (r *CleanerRepo) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete cleaners: %w", err)
	}
	return result.DeletedCount, nil
}

func (r *CleanerRepo) CreateIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "verificationStatus", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create cleaner indexes: %w", err)
	}
	return nil
}
