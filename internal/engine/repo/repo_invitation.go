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
	"github.com/xpect-group/portal/pkg/statemachine"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IInvitationRepository interface {
	Create(ctx context.Context, invitation *model.Invitation) error
	GetByID(ctx context.Context, id string) (*model.Invitation, error)
	GetByToken(ctx context.Context, inviteToken string) (*model.Invitation, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*model.Invitation, error)
	Update(ctx context.Context, invitation *model.Invitation) error
	Delete(ctx context.Context, id string) error
	ListOverdue(ctx context.Context, now time.Time) ([]*model.Invitation, error)
	CreateIndexes(ctx context.Context) error
}

type InvitationRepo struct {
	mongoRepo
}

func NewInvitationRepo(client *database.MongoClient) IInvitationRepository {
	return &InvitationRepo{mongoRepo: newMongoRepo(client, model.Invitation{}.CollectionName())}
}

func (r *InvitationRepo) Create(ctx context.Context, invitation *model.Invitation) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	now := time.Now()
	invitation.CreatedAt = now
	invitation.UpdatedAt = now
	if _, err := r.collection.InsertOne(ctx, invitation); err != nil {
		return fmt.Errorf("failed to insert invitation: %w", translate(err))
	}
	return nil
}

func (r *InvitationRepo) findOne(ctx context.Context, filter bson.M) (*model.Invitation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var invitation model.Invitation
	if err := r.collection.FindOne(ctx, filter).Decode(&invitation); err != nil {
		return nil, fmt.Errorf("failed to get invitation: %w", translate(err))
	}
	return &invitation, nil
}

func (r *InvitationRepo) GetByID(ctx context.Context, id string) (*model.Invitation, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *InvitationRepo) GetByToken(ctx context.Context, inviteToken string) (*model.Invitation, error) {
	return r.findOne(ctx, bson.M{"inviteToken": inviteToken})
}

func (r *InvitationRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	n, err := r.collection.CountDocuments(ctx, bson.M{"email": email}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count invitations: %w", err)
	}
	return n > 0, nil
}

func (r *InvitationRepo) List(ctx context.Context) ([]*model.Invitation, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *InvitationRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Invitation, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	invitations := make([]*model.Invitation, 0)
	if err := cursor.All(ctx, &invitations); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %w", err)
	}
	return invitations, nil
}

// Update overwrites every mutable field of the invitation.
func (r *InvitationRepo) Update(ctx context.Context, invitation *model.Invitation) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	invitation.UpdatedAt = time.Now()
	set := bson.M{
		"employeeName":       invitation.EmployeeName,
		"email":              invitation.Email,
		"status":             invitation.Status,
		"onboardingProgress": invitation.OnboardingProgress,
		"expiresAt":          invitation.ExpiresAt,
		"updatedAt":          invitation.UpdatedAt,
	}
	unset := bson.M{}
	if invitation.Otp != "" {
		set["otp"] = invitation.Otp
		set["otpExpiresAt"] = invitation.OtpExpiresAt
	} else {
		unset["otp"] = ""
		unset["otpExpiresAt"] = ""
	}
	if invitation.VerifiedAt != nil {
		set["verifiedAt"] = invitation.VerifiedAt
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"id": invitation.ID}, update)
	if err != nil {
		return fmt.Errorf("failed to update invitation: %w", translate(err))
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("invitation %s: %w", invitation.ID, ErrNotFound)
	}
	return nil
}

func (r *InvitationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("invitation %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListOverdue returns active invitations whose deadline has passed.
func (r *InvitationRepo) ListOverdue(ctx context.Context, now time.Time) ([]*model.Invitation, error) {
	filter := bson.M{
		"status":    bson.M{"$in": statemachine.ActiveInvitationStatuses()},
		"expiresAt": bson.M{"$lt": now},
	}
	return r.find(ctx, filter, options.Find().SetLimit(500))
}

func (r *InvitationRepo) CreateIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "inviteToken", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "expiresAt", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create invitation indexes: %w", err)
	}
	return nil
}
