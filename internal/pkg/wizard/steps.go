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
	"math"
	"slices"
)

const (
	StepCitizenship = iota + 1
	StepPersonalDetails
	StepRightToWork
	StepVisaType
	StepStudentVisa
	StepIdentity
	StepEmploymentType
	StepDBS
	StepAvailability
	StepDeclarations
)

const (
	FirstStep = StepCitizenship
	LastStep  = StepDeclarations
	// SlotCount is the fixed number of internal step slots.
	SlotCount = LastStep
)

var stepNames = map[int]string{
	StepCitizenship:     "Citizenship Status",
	StepPersonalDetails: "Personal Details",
	StepRightToWork:     "Right to Work",
	StepVisaType:        "Visa Type",
	StepStudentVisa:     "Student Visa Details",
	StepIdentity:        "Identity Documents",
	StepEmploymentType:  "Employment Type",
	StepDBS:             "DBS Check",
	StepAvailability:    "Availability",
	StepDeclarations:    "Declarations",
}

func StepName(step int) string {
	return stepNames[step]
}

func ValidStep(step int) bool {
	return step >= FirstStep && step <= LastStep
}

// ActiveSteps returns the ordered step numbers an applicant with the given
// answers has to go through. Optional steps are inserted, never reordered.
func ActiveSteps(citizenship, visaType string) []int {
	steps := make([]int, 0, SlotCount)
	steps = append(steps, StepCitizenship, StepPersonalDetails)

	if citizenship != CitizenshipUK && citizenship != CitizenshipIrish {
		steps = append(steps, StepRightToWork)
	}
	nonEU := citizenship == CitizenshipNonEU
	if nonEU {
		steps = append(steps, StepVisaType)
	}
	if nonEU && visaType == VisaStudent {
		steps = append(steps, StepStudentVisa)
	}

	return append(steps, StepIdentity, StepEmploymentType, StepDBS, StepAvailability, StepDeclarations)
}

func ActiveStepsFor(f *FormData) []int {
	return ActiveSteps(f.CitizenshipStatus, f.VisaType)
}

// DisplayStep is the 1-based position of step within active, 0 when absent.
func DisplayStep(active []int, step int) int {
	return slices.Index(active, step) + 1
}

func TotalSteps(active []int) int {
	return len(active)
}

func IsActive(active []int, step int) bool {
	return slices.Contains(active, step)
}

func IsLast(active []int, step int) bool {
	return len(active) > 0 && active[len(active)-1] == step
}

// Next returns the active step after step, false on the last one.
func Next(active []int, step int) (int, bool) {
	i := slices.Index(active, step)
	if i < 0 || i == len(active)-1 {
		return 0, false
	}
	return active[i+1], true
}

// Prev returns the active step before step, false on the first one.
func Prev(active []int, step int) (int, bool) {
	i := slices.Index(active, step)
	if i <= 0 {
		return 0, false
	}
	return active[i-1], true
}

// ProgressPercent uses the fixed slot count as denominator so that records
// with different branches stay comparable.
func ProgressPercent(lastCompletedStep int) int {
	if lastCompletedStep <= 0 {
		return 0
	}
	return int(math.Round(float64(min(lastCompletedStep, SlotCount)) / SlotCount * 100))
}
