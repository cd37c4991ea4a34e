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

package wizard

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

var citizenships = []string{"", CitizenshipUK, CitizenshipIrish, CitizenshipEU, CitizenshipNonEU, CitizenshipOverseas}
var visas = []string{"", VisaStudent, VisaSkilledWorker, VisaGraduate, VisaDependant, VisaOther}

func TestActiveSteps_Properties(t *testing.T) {
	for _, c := range citizenships {
		for _, v := range visas {
			t.Run(c+"/"+v, func(t *testing.T) {
				steps := ActiveSteps(c, v)

				assert.Equal(t, []int{1, 2}, steps[:2])
				assert.Equal(t, []int{6, 7, 8, 9, 10}, steps[len(steps)-5:])
				assert.Equal(t, c != CitizenshipUK && c != CitizenshipIrish, slices.Contains(steps, 3))
				assert.Equal(t, c == CitizenshipNonEU, slices.Contains(steps, 4))
				assert.Equal(t, v == VisaStudent && slices.Contains(steps, 4), slices.Contains(steps, 5))
				assert.True(t, slices.IsSorted(steps))
				assert.Equal(t, steps, ActiveSteps(c, v))
			})
		}
	}
}

func TestActiveSteps_ByCitizenship(t *testing.T) {
	tests := []struct {
		name        string
		citizenship string
		visa        string
		want        []int
	}{
		{"uk citizen", CitizenshipUK, "", []int{1, 2, 6, 7, 8, 9, 10}},
		{"irish citizen", CitizenshipIrish, VisaStudent, []int{1, 2, 6, 7, 8, 9, 10}},
		{"eu citizen", CitizenshipEU, "", []int{1, 2, 3, 6, 7, 8, 9, 10}},
		{"eu citizen with stale student visa", CitizenshipEU, VisaStudent, []int{1, 2, 3, 6, 7, 8, 9, 10}},
		{"non-eu skilled worker", CitizenshipNonEU, VisaSkilledWorker, []int{1, 2, 3, 4, 6, 7, 8, 9, 10}},
		{"non-eu student", CitizenshipNonEU, VisaStudent, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"not chosen yet", "", "", []int{1, 2, 3, 6, 7, 8, 9, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveSteps(tt.citizenship, tt.visa))
		})
	}
}

func TestDisplayStep(t *testing.T) {
	full := ActiveSteps(CitizenshipNonEU, VisaStudent)
	for _, step := range full {
		assert.Equal(t, step, DisplayStep(full, step))
	}
	assert.Equal(t, 10, TotalSteps(full))

	uk := ActiveSteps(CitizenshipUK, "")
	assert.Equal(t, 3, DisplayStep(uk, StepIdentity))
	assert.Equal(t, 7, TotalSteps(uk))
	assert.Equal(t, 0, DisplayStep(uk, StepRightToWork))
}

func TestNextPrev(t *testing.T) {
	uk := ActiveSteps(CitizenshipUK, "")

	next, ok := Next(uk, StepPersonalDetails)
	assert.True(t, ok)
	assert.Equal(t, StepIdentity, next)

	_, ok = Next(uk, StepDeclarations)
	assert.False(t, ok)
	assert.True(t, IsLast(uk, StepDeclarations))

	prev, ok := Prev(uk, StepIdentity)
	assert.True(t, ok)
	assert.Equal(t, StepPersonalDetails, prev)

	_, ok = Prev(uk, StepCitizenship)
	assert.False(t, ok)
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		last int
		want int
	}{
		{0, 0}, {1, 10}, {2, 20}, {6, 60}, {9, 90}, {10, 100}, {12, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressPercent(tt.last))
	}
}
