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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgo="

func file(name string) *Attachment {
	return &Attachment{Name: name, DataURL: "data:application/pdf;base64,JVBERi0xLjQ="}
}

func yes() *bool {
	v := true
	return &v
}

func completeForm() *FormData {
	return &FormData{
		Version: FormVersion,
		PersonalDetails: PersonalDetails{
			Name: "Jane Doe", Email: "jane@example.com", PhoneNumber: "07700900000",
			Dob: "1995-02-01", Address: "1 High Street", Gender: "Female",
		},
		CitizenshipStatus:     CitizenshipNonEU,
		VisaType:              VisaStudent,
		PassportPhoto:         pngDataURL,
		ShareCode:             "ABC123XYZ",
		UniName:               "UCL",
		CourseName:            "Economics",
		TermStart:             "2025-09-20",
		TermEnd:               "2026-06-10",
		HasAgreedToHours:      true,
		EmploymentType:        "Contractor",
		WorkPreference:        WorkPartTime,
		AvailabilityToStart:   "Immediate",
		PreferredShiftPattern: ShiftMornings,
		HasDBS:                yes(),
		Declarations:          Declarations{Accuracy: true, Rtw: true, Approval: true, Gdpr: true},
		Attachments: Attachments{
			ShareCodeScreenshot: file("share.png"),
			Passport:            file("passport.png"),
			TermDatesDocument:   file("terms.pdf"),
			DbsCertificate:      file("dbs.png"),
			SalarySlip:          file("slip.pdf"),
		},
	}
}

func TestValidate_CompleteFormPassesEveryStep(t *testing.T) {
	form := completeForm()
	for step := FirstStep; step <= LastStep; step++ {
		assert.Empty(t, Validate(step, form), "step %d", step)
		assert.True(t, CanProceed(step, form), "step %d", step)
	}
	failed, errs := ValidateAll(form)
	assert.Zero(t, failed)
	assert.Nil(t, errs)
}

func TestValidate_Messages(t *testing.T) {
	tests := []struct {
		name   string
		step   int
		mutate func(f *FormData)
		want   map[string]string
	}{
		{"citizenship missing", StepCitizenship, func(f *FormData) { f.CitizenshipStatus = "" },
			map[string]string{"citizenshipStatus": "Please select your citizenship status"}},
		{"blank name", StepPersonalDetails, func(f *FormData) { f.PersonalDetails.Name = "   " },
			map[string]string{"name": "Full name is required"}},
		{"bad email", StepPersonalDetails, func(f *FormData) { f.PersonalDetails.Email = "jane@" },
			map[string]string{"email": "Please enter a valid email address"}},
		{"missing email", StepPersonalDetails, func(f *FormData) { f.PersonalDetails.Email = "" },
			map[string]string{"email": "Email address is required"}},
		{"photo missing", StepPersonalDetails, func(f *FormData) { f.PassportPhoto = "" },
			map[string]string{"passportPhoto": "Passport size photo is required"}},
		{"photo not an image", StepPersonalDetails, func(f *FormData) { f.PassportPhoto = "data:application/pdf;base64,JVBERi0=" },
			map[string]string{"passportPhoto": "Please upload an image file (JPG, PNG)"}},
		{"photo too large", StepPersonalDetails, func(f *FormData) {
			f.PassportPhoto = "data:image/jpeg;base64," + strings.Repeat("A", (MaxPhotoBytes/3+2)*4)
		}, map[string]string{"passportPhoto": "Image size should be less than 5MB"}},
		{"share code short", StepRightToWork, func(f *FormData) { f.ShareCode = " ABC12 " },
			map[string]string{"shareCode": "Share code must be 9 characters"}},
		{"share code and screenshot missing", StepRightToWork, func(f *FormData) {
			f.ShareCode = ""
			f.Attachments.ShareCodeScreenshot = nil
		}, map[string]string{"shareCode": "Share code is required", "shareCodeScreenshot": "Share code screenshot is required"}},
		{"other visa needs detail", StepVisaType, func(f *FormData) { f.VisaType = VisaOther },
			map[string]string{"visaOther": "Please specify your visa type"}},
		{"term dates reversed", StepStudentVisa, func(f *FormData) { f.TermEnd = f.TermStart },
			map[string]string{"termEnd": "Term end date must be after term start date"}},
		{"term dates unparseable", StepStudentVisa, func(f *FormData) {
			f.TermStart = "next autumn"
			f.TermEnd = "whenever"
		}, map[string]string{"termEnd": "Term end date must be after term start date"}},
		{"term end unparseable", StepStudentVisa, func(f *FormData) { f.TermEnd = "2026-13-40" },
			map[string]string{"termEnd": "Term end date must be after term start date"}},
		{"term start missing", StepStudentVisa, func(f *FormData) { f.TermStart = "" },
			map[string]string{"termStart": "Term start date is required"}},
		{"term dates as timestamps", StepStudentVisa, func(f *FormData) {
			f.TermStart = "2025-09-20T00:00:00Z"
			f.TermEnd = "2026-06-10T00:00:00Z"
		}, map[string]string{}},
		{"hours not agreed", StepStudentVisa, func(f *FormData) { f.HasAgreedToHours = false },
			map[string]string{"hasAgreedToHours": "You must agree to the working hours declaration"}},
		{"no identity document", StepIdentity, func(f *FormData) { f.Attachments.Passport = nil },
			map[string]string{"identityProof": "Please upload at least one identity document"}},
		{"driving licence is enough", StepIdentity, func(f *FormData) {
			f.Attachments.Passport = nil
			f.Attachments.DrivingLicence = file("licence.png")
		}, map[string]string{}},
		{"work preference missing", StepEmploymentType, func(f *FormData) { f.WorkPreference = "" },
			map[string]string{"workPreference": "Please select Full-Time or Part-Time"}},
		{"dbs unanswered", StepDBS, func(f *FormData) { f.HasDBS = nil },
			map[string]string{"hasDBS": "Please indicate if you have a DBS certificate"}},
		{"dbs certificate missing", StepDBS, func(f *FormData) { f.Attachments.DbsCertificate = nil },
			map[string]string{"dbsCertificate": "Please upload your DBS certificate"}},
		{"placeholders", StepAvailability, func(f *FormData) {
			f.AvailabilityToStart = AvailabilityPlaceholder
			f.PreferredShiftPattern = ShiftAny
		}, map[string]string{
			"availabilityToStart":   "Availability to start is required",
			"preferredShiftPattern": "Preferred shift pattern is required",
		}},
		{"gdpr missing", StepDeclarations, func(f *FormData) { f.Declarations.Gdpr = false },
			map[string]string{"gdpr": "You must consent to secure storage of your data"}},
		{"inactive step passes", StepRightToWork, func(f *FormData) {
			f.CitizenshipStatus = CitizenshipUK
			f.ShareCode = ""
		}, map[string]string{}},
		{"student step inactive without visa", StepStudentVisa, func(f *FormData) {
			f.VisaType = VisaGraduate
			f.UniName = ""
		}, map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := completeForm()
			tt.mutate(form)

			errs := Validate(tt.step, form)
			assert.Equal(t, tt.want, errs)
			assert.Equal(t, len(errs) == 0, CanProceed(tt.step, form))
		})
	}
}

func TestValidateAll_ReportsFirstFailingStep(t *testing.T) {
	form := completeForm()
	form.EmploymentType = ""
	form.Declarations.Rtw = false

	step, errs := ValidateAll(form)
	assert.Equal(t, StepEmploymentType, step)
	assert.Contains(t, errs, "employmentType")
}

func TestCanProceed_AgreesWithValidateOnEmptyForm(t *testing.T) {
	for _, c := range citizenships {
		form := &FormData{CitizenshipStatus: c, VisaType: VisaStudent}
		for step := FirstStep; step <= LastStep; step++ {
			assert.Equal(t, len(Validate(step, form)) == 0, CanProceed(step, form), "%s step %d", c, step)
		}
	}
}
