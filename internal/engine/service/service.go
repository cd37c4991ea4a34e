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
	"errors"
	"maps"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/xpect-group/portal/internal/engine/repo"
	"github.com/xpect-group/portal/pkg/http"
)

// Clock is swapped in tests.
type Clock func() time.Time

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// mapNotFound turns repo.ErrNotFound into the given code table entry and any
// other failure into an internal error.
func mapNotFound(err error, notFound *http.Response) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound.Err()
	}
	return http.InternalError.Wrap(err)
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return "1 " + singular
	}
	return strconv.Itoa(n) + " " + pluralForm
}

// mergePatch applies a shallow JSON merge patch to a copy of v.
func mergePatch[T any](v *T, patch map[string]any) (*T, error) {
	raw, err := sonic.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := make(map[string]any)
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	maps.Copy(doc, patch)
	if raw, err = sonic.Marshal(doc); err != nil {
		return nil, err
	}
	out := new(T)
	if err := sonic.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
