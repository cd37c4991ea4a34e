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

type IActivityRepository interface {
	Insert(ctx context.Context, entry *model.ActivityLog) error
	Recent(ctx context.Context, limit int) ([]model.ActivityLog, error)
	Query(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, int64, error)
	ByEntity(ctx context.Context, entityType model.EntityType, entityID string) ([]model.ActivityLog, error)
	CreateIndexes(ctx context.Context) error
}

type ActivityRepo struct {
	mongoRepo
}

func NewActivityRepo(client *database.MongoClient) IActivityRepository {
	return &ActivityRepo{mongoRepo: newMongoRepo(client, model.ActivityLog{}.CollectionName())}
}

func (r *ActivityRepo) Insert(ctx context.Context, entry *model.ActivityLog) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

func (r *ActivityRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]model.ActivityLog, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find activities: %w", err)
	}
	defer cursor.Close(ctx)

	entries := make([]model.ActivityLog, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode activities: %w", err)
	}
	return entries, nil
}

func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
}

func (r *ActivityRepo) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.find(ctx, bson.M{}, newestFirst().SetLimit(int64(limit)))
}

// Query returns one page of matching entries plus the total match count.
func (r *ActivityRepo) Query(ctx context.Context, q model.ActivityQuery) ([]model.ActivityLog, int64, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if q.ActorRole != "" {
		filter["actorRole"] = q.ActorRole
	}
	if q.ActionType != "" {
		filter["actionType"] = q.ActionType
	}
	if q.EntityType != "" {
		filter["entityType"] = q.EntityType
	}
	if q.EntityID != "" {
		filter["entityId"] = q.EntityID
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count activities: %w", err)
	}
	skip := int64((q.Page - 1) * q.Limit)
	entries, err := r.find(ctx, filter, newestFirst().SetSkip(skip).SetLimit(int64(q.Limit)))
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *ActivityRepo) ByEntity(ctx context.Context, entityType model.EntityType, entityID string) ([]model.ActivityLog, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	return r.find(ctx, bson.M{"entityType": entityType, "entityId": entityID}, newestFirst())
}

func (r *ActivityRepo) CreateIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "entityType", Value: 1}, {Key: "entityId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "actorRole", Value: 1}, {Key: "actionType", Value: 1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create activity indexes: %w", err)
	}
	return nil
}
