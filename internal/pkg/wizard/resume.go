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

import "slices"

// ResumeStep decides where a returning applicant lands given what was last
// persisted and the active steps recomputed from the restored answers.
func ResumeStep(active []int, currentStep, lastCompletedStep int) int {
	if len(active) == 0 {
		return FirstStep
	}
	if slices.Contains(active, currentStep) {
		return currentStep
	}

	if lastCompletedStep < FirstStep {
		lastCompletedStep = FirstStep
	}
	if i := slices.Index(active, lastCompletedStep); i >= 0 {
		if i < len(active)-1 {
			return active[i+1]
		}
		return active[i]
	}

	for _, step := range active {
		if step >= lastCompletedStep {
			return step
		}
	}
	return active[0]
}

// Position is where the wizard stands for one applicant.
type Position struct {
	CurrentStep       int   `json:"currentStep"`
	DisplayStep       int   `json:"displayStep"`
	TotalSteps        int   `json:"totalSteps"`
	ActiveSteps       []int `json:"activeSteps"`
	LastCompletedStep int   `json:"lastCompletedStep"`
	ProgressPercent   int   `json:"progressPercent"`
}

func PositionOf(f *FormData, step, lastCompletedStep int) Position {
	active := ActiveStepsFor(f)
	return Position{
		CurrentStep:       step,
		DisplayStep:       DisplayStep(active, step),
		TotalSteps:        TotalSteps(active),
		ActiveSteps:       active,
		LastCompletedStep: lastCompletedStep,
		ProgressPercent:   ProgressPercent(lastCompletedStep),
	}
}

// Resume recomputes the landing position from a persisted record.
func Resume(f *FormData, currentStep, lastCompletedStep int) Position {
	active := ActiveStepsFor(f)
	return PositionOf(f, ResumeStep(active, currentStep, lastCompletedStep), lastCompletedStep)
}
