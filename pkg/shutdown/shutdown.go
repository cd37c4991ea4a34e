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

package shutdown

import (
	"sync"
	"sync/atomic"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(NewManager)

// Manager flips once when the process starts draining so readiness checks
// can turn away new traffic before the listener closes.
type Manager struct {
	draining atomic.Bool
	once     sync.Once
	done     chan struct{}
}

func NewManager() *Manager {
	return &Manager{done: make(chan struct{})}
}

func (m *Manager) Draining() bool {
	return m != nil && m.draining.Load()
}

// Begin starts draining. Only the first call returns true.
func (m *Manager) Begin() bool {
	started := false
	m.once.Do(func() {
		m.draining.Store(true)
		close(m.done)
		started = true
	})
	return started
}

// Done is closed when draining begins.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}
