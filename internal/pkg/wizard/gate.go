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
	"regexp"
	"strings"
	"time"
)

const (
	MaxPhotoBytes   = 5 * 1024 * 1024
	ShareCodeLength = 9
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// rule reports the message for one field, or "" when the field is fine.
type rule struct {
	field string
	check func(f *FormData) string
}

func required(field, msg string, value func(f *FormData) string) rule {
	return rule{field: field, check: func(f *FormData) string {
		if strings.TrimSpace(value(f)) == "" {
			return msg
		}
		return ""
	}}
}

func consent(field, msg string, value func(f *FormData) bool) rule {
	return rule{field: field, check: func(f *FormData) string {
		if !value(f) {
			return msg
		}
		return ""
	}}
}

func attached(field, msg string, value func(f *FormData) *Attachment) rule {
	return rule{field: field, check: func(f *FormData) string {
		if !value(f).Present() {
			return msg
		}
		return ""
	}}
}

// rules is the single source for both CanProceed and Validate.
var rules = map[int][]rule{
	StepCitizenship: {
		required("citizenshipStatus", "Please select your citizenship status", func(f *FormData) string { return f.CitizenshipStatus }),
	},
	StepPersonalDetails: {
		required("name", "Full name is required", func(f *FormData) string { return f.PersonalDetails.Name }),
		{field: "email", check: func(f *FormData) string {
			email := strings.TrimSpace(f.PersonalDetails.Email)
			switch {
			case email == "":
				return "Email address is required"
			case !IsValidEmail(email):
				return "Please enter a valid email address"
			}
			return ""
		}},
		required("phoneNumber", "Phone number is required", func(f *FormData) string { return f.PersonalDetails.PhoneNumber }),
		required("dob", "Date of birth is required", func(f *FormData) string { return f.PersonalDetails.Dob }),
		required("address", "Current address is required", func(f *FormData) string { return f.PersonalDetails.Address }),
		{field: "passportPhoto", check: checkPassportPhoto},
		required("gender", "Gender is required", func(f *FormData) string { return f.PersonalDetails.Gender }),
	},
	StepRightToWork: {
		{field: "shareCode", check: func(f *FormData) string {
			code := strings.TrimSpace(f.ShareCode)
			switch {
			case code == "":
				return "Share code is required"
			case len(code) != ShareCodeLength:
				return "Share code must be 9 characters"
			}
			return ""
		}},
		attached("shareCodeScreenshot", "Share code screenshot is required", func(f *FormData) *Attachment { return f.Attachments.ShareCodeScreenshot }),
	},
	StepVisaType: {
		required("visaType", "Please select a visa type", func(f *FormData) string { return f.VisaType }),
		{field: "visaOther", check: func(f *FormData) string {
			if f.VisaType == VisaOther && strings.TrimSpace(f.VisaOther) == "" {
				return "Please specify your visa type"
			}
			return ""
		}},
	},
	StepStudentVisa: {
		required("uniName", "University/College name is required", func(f *FormData) string { return f.UniName }),
		required("courseName", "Course name is required", func(f *FormData) string { return f.CourseName }),
		required("termStart", "Term start date is required", func(f *FormData) string { return f.TermStart }),
		{field: "termEnd", check: func(f *FormData) string {
			if f.TermEnd == "" {
				return "Term end date is required"
			}
			if strings.TrimSpace(f.TermStart) != "" && !termOrdered(f.TermStart, f.TermEnd) {
				return "Term end date must be after term start date"
			}
			return ""
		}},
		attached("termDatesDocument", "Term dates document is required", func(f *FormData) *Attachment { return f.Attachments.TermDatesDocument }),
		consent("hasAgreedToHours", "You must agree to the working hours declaration", func(f *FormData) bool { return f.HasAgreedToHours }),
	},
	StepIdentity: {
		{field: "identityProof", check: func(f *FormData) string {
			if !f.Attachments.HasIdentityDocument() {
				return "Please upload at least one identity document"
			}
			return ""
		}},
		attached("salarySlip", "Last 3 month salary slip is required", func(f *FormData) *Attachment { return f.Attachments.SalarySlip }),
	},
	StepEmploymentType: {
		required("employmentType", "Please select an employment type", func(f *FormData) string { return f.EmploymentType }),
		required("workPreference", "Please select Full-Time or Part-Time", func(f *FormData) string { return f.WorkPreference }),
	},
	StepDBS: {
		{field: "hasDBS", check: func(f *FormData) string {
			if f.HasDBS == nil {
				return "Please indicate if you have a DBS certificate"
			}
			return ""
		}},
		{field: "dbsCertificate", check: func(f *FormData) string {
			if f.HasDBS != nil && *f.HasDBS && !f.Attachments.DbsCertificate.Present() {
				return "Please upload your DBS certificate"
			}
			return ""
		}},
	},
	StepAvailability: {
		{field: "availabilityToStart", check: func(f *FormData) string {
			if f.AvailabilityToStart == "" || f.AvailabilityToStart == AvailabilityPlaceholder {
				return "Availability to start is required"
			}
			return ""
		}},
		{field: "preferredShiftPattern", check: func(f *FormData) string {
			if f.PreferredShiftPattern == "" || f.PreferredShiftPattern == ShiftAny {
				return "Preferred shift pattern is required"
			}
			return ""
		}},
	},
	StepDeclarations: {
		consent("accuracy", "You must confirm the information is accurate", func(f *FormData) bool { return f.Declarations.Accuracy }),
		consent("rtw", "You must consent to Right-to-Work verification", func(f *FormData) bool { return f.Declarations.Rtw }),
		consent("approval", "You must understand employment is subject to approval", func(f *FormData) bool { return f.Declarations.Approval }),
		consent("gdpr", "You must consent to secure storage of your data", func(f *FormData) bool { return f.Declarations.Gdpr }),
	},
}

func checkPassportPhoto(f *FormData) string {
	photo := f.PassportPhoto
	if photo == "" {
		return "Passport size photo is required"
	}
	if !IsDataURL(photo) {
		return ""
	}
	mediaType, size, err := InspectDataURL(photo)
	switch {
	case err != nil, !strings.HasPrefix(mediaType, "image/"):
		return "Please upload an image file (JPG, PNG)"
	case size > MaxPhotoBytes:
		return "Image size should be less than 5MB"
	}
	return ""
}

// termOrdered holds when both dates parse and start is strictly before end.
func termOrdered(start, end string) bool {
	s, errS := parseDate(start)
	e, errE := parseDate(end)
	if errS != nil || errE != nil {
		return false
	}
	return s.Before(e)
}

// parseDate accepts date inputs (2006-01-02) and full RFC 3339 timestamps.
func parseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}

func applies(step int, f *FormData) bool {
	return IsActive(ActiveStepsFor(f), step)
}

// CanProceed reports whether the applicant may leave step.
func CanProceed(step int, f *FormData) bool {
	if !applies(step, f) {
		return true
	}
	for _, r := range rules[step] {
		if r.check(f) != "" {
			return false
		}
	}
	return true
}

// Validate returns one message per invalid field of step. Inactive steps and
// steps without problems return an empty map.
func Validate(step int, f *FormData) map[string]string {
	errs := make(map[string]string)
	if !applies(step, f) {
		return errs
	}
	for _, r := range rules[step] {
		if msg := r.check(f); msg != "" {
			errs[r.field] = msg
		}
	}
	return errs
}

// ValidateAll checks every active step and returns the first failing one.
func ValidateAll(f *FormData) (int, map[string]string) {
	for _, step := range ActiveStepsFor(f) {
		if errs := Validate(step, f); len(errs) > 0 {
			return step, errs
		}
	}
	return 0, nil
}
