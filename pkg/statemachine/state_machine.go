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

package statemachine

import (
	"errors"
	"fmt"
)

type Event string

var ErrNoTransition = errors.New("no transition")

// Guard may veto leaving from on event before the table is consulted.
type Guard[T comparable] func(from T, event Event) error

type transitionKey[T comparable] struct {
	From  T
	Event Event
}

// Table maps (state, event) pairs to target states. Build it once with On and
// Guard, then share it read-only.
type Table[T comparable] struct {
	targets map[transitionKey[T]]T
	guards  []Guard[T]
}

func NewTable[T comparable]() *Table[T] {
	return &Table[T]{targets: make(map[transitionKey[T]]T)}
}

func (t *Table[T]) On(from T, event Event, to T) *Table[T] {
	t.targets[transitionKey[T]{From: from, Event: event}] = to
	return t
}

func (t *Table[T]) Guard(g Guard[T]) *Table[T] {
	t.guards = append(t.guards, g)
	return t
}

// Fire returns the state event leads to from the given state. Guard errors are
// returned as is; a missing entry wraps ErrNoTransition.
func (t *Table[T]) Fire(from T, event Event) (T, error) {
	var zero T
	for _, g := range t.guards {
		if err := g(from, event); err != nil {
			return zero, err
		}
	}
	to, ok := t.targets[transitionKey[T]{From: from, Event: event}]
	if !ok {
		return zero, fmt.Errorf("%w for event %v in state %v", ErrNoTransition, event, from)
	}
	return to, nil
}
