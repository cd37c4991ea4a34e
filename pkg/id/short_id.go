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

package id

import (
	"strings"

	"github.com/rs/xid"
	"github.com/teris-io/shortid"
)

func ShortId() string {
	id, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return id
}

// GetXid returns a compact 20 character globally unique id.
func GetXid() string {
	return xid.New().String()
}

// RandomAlnum returns n upper-case alphanumeric characters.
func RandomAlnum(n int) string {
	var b strings.Builder
	for b.Len() < n {
		for _, r := range strings.ToUpper(ShortId()) {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
				if b.Len() == n {
					break
				}
			}
		}
	}
	return b.String()
}
