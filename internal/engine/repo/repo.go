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

	"github.com/xpect-group/portal/pkg/database"
	"github.com/xpect-group/portal/pkg/log"
)

// Repositories groups every collection the portal reads and writes.
type Repositories struct {
	Invitation IInvitationRepository
	Progress   IProgressRepository
	Cleaner    ICleanerRepository
	Activity   IActivityRepository
	Admin      IAdminRepository
}

func NewRepositories(client *database.MongoClient) *Repositories {
	return &Repositories{
		Invitation: NewInvitationRepo(client),
		Progress:   NewProgressRepo(client),
		Cleaner:    NewCleanerRepo(client),
		Activity:   NewActivityRepo(client),
		Admin:      NewAdminRepo(client),
	}
}

type indexer interface {
	CreateIndexes(ctx context.Context) error
}

// CreateIndexes ensures indexes on every collection that declares them.
func (r *Repositories) CreateIndexes(ctx context.Context) error {
	for _, repo := range []any{r.Invitation, r.Progress, r.Cleaner, r.Activity, r.Admin} {
		ix, ok := repo.(indexer)
		if !ok {
			continue
		}
		if err := ix.CreateIndexes(ctx); err != nil {
			log.Errorw("failed to create indexes", "error", err)
			return err
		}
	}
	return nil
}
