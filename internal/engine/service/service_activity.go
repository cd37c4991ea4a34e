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
	"math"
	"time"

	"github.com/xpect-group/portal/internal/engine/constant"
	"github.com/xpect-group/portal/internal/engine/model"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/pkg/http"
	"github.com/xpect-group/portal/pkg/id"
	"github.com/xpect-group/portal/pkg/log"
)

const (
	defaultRecentLimit = 10
	defaultPageLimit   = 20
	maxActivityLimit   = 100
)

// ActivityService writes and reads the audit trail. Writes never fail the
// caller's operation.
type ActivityService struct {
	activityRepo repo.IActivityRepository
	now          Clock
}

func NewActivityService(activityRepo repo.IActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo, now: time.Now}
}

func (s *ActivityService) Record(ctx context.Context, entry model.ActivityLog) {
	if entry.ID == "" {
		entry.ID = id.GetUlid()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	if entry.Metadata == nil {
		entry.Metadata = map[string]any{}
	}
	if err := s.activityRepo.Insert(ctx, &entry); err != nil {
		log.WithContext(ctx).Errorw("failed to record activity",
			"actionType", entry.ActionType, "entityId", entry.EntityID, "error", err)
	}
}

func (s *ActivityService) ByAdmin(ctx context.Context, action model.ActionType, entity model.EntityType, entityID, message string, metadata map[string]any) {
	s.Record(ctx, model.ActivityLog{
		ActorID:    constant.AdminID,
		ActorRole:  model.ActorAdmin,
		ActorName:  constant.AdminName,
		ActionType: action,
		EntityType: entity,
		EntityID:   entityID,
		Message:    message,
		Metadata:   metadata,
	})
}

func (s *ActivityService) ByEmployee(ctx context.Context, actorID, actorName string, action model.ActionType, entity model.EntityType, entityID, message string, metadata map[string]any) {
	s.Record(ctx, model.ActivityLog{
		ActorID:    actorID,
		ActorRole:  model.ActorEmployee,
		ActorName:  actorName,
		ActionType: action,
		EntityType: entity,
		EntityID:   entityID,
		Message:    message,
		Metadata:   metadata,
	})
}

func (s *ActivityService) BySystem(ctx context.Context, action model.ActionType, entity model.EntityType, entityID, message string, metadata map[string]any) {
	s.Record(ctx, model.ActivityLog{
		ActorID:    constant.SystemActorID,
		ActorRole:  model.ActorSystem,
		ActorName:  constant.SystemActorName,
		ActionType: action,
		EntityType: entity,
		EntityID:   entityID,
		Message:    message,
		Metadata:   metadata,
	})
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, maxActivityLimit)
}

func (s *ActivityService) Recent(ctx context.Context, limit int) ([]model.ActivityLog, error) {
	entries, err := s.activityRepo.Recent(ctx, clampLimit(limit, defaultRecentLimit))
	if err != nil {
		log.WithContext(ctx).Errorw("failed to fetch recent activities", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return entries, nil
}

func (s *ActivityService) List(ctx context.Context, q model.ActivityQuery) (*model.ActivityPage, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	q.Limit = clampLimit(q.Limit, defaultPageLimit)

	entries, total, err := s.activityRepo.Query(ctx, q)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to fetch activities", "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return &model.ActivityPage{
		Activities: entries,
		Pagination: model.Pagination{
			Total: total,
			Page:  q.Page,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
			Limit: q.Limit,
		},
	}, nil
}

func (s *ActivityService) Timeline(ctx context.Context, entityType, entityID string) ([]model.ActivityLog, error) {
	entries, err := s.activityRepo.ByEntity(ctx, model.EntityType(entityType), entityID)
	if err != nil {
		log.WithContext(ctx).Errorw("failed to fetch entity activities", "entityType", entityType, "entityId", entityID, "error", err)
		return nil, http.InternalError.Wrap(err)
	}
	return entries, nil
}
