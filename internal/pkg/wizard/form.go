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

// FormVersion is bumped whenever a field is added to or removed from FormData.
const FormVersion = 1

const (
	CitizenshipUK       = "UK Citizen"
	CitizenshipIrish    = "Irish Citizen"
	CitizenshipEU       = "EU / EEA Citizen"
	CitizenshipNonEU    = "Non-EU Citizen (Visa / BRP holder)"
	CitizenshipOverseas = "Overseas Contractor (not working inside UK)"

	VisaStudent       = "Student Visa"
	VisaSkilledWorker = "Skilled Worker Visa"
	VisaGraduate      = "Graduate Visa"
	VisaDependant     = "Dependant Visa"
	VisaOther         = "Other"

	WorkFullTime = "Full-Time"
	WorkPartTime = "Part-Time"

	AvailabilityPlaceholder = "Select Availability"
	ShiftAny                = "Any"
	ShiftMornings           = "Mornings Only"
	ShiftAfternoons         = "Afternoons Only"
	ShiftEveningsWeekends   = "Evenings / Weekends"
)

// FormData is everything the wizard collects. All fields are optional while
// the applicant is still working through the steps.
type FormData struct {
	Version int `json:"version" bson:"version"`

	PersonalDetails PersonalDetails `json:"personalDetails" bson:"personalDetails"`

	CitizenshipStatus string `json:"citizenshipStatus,omitempty" bson:"citizenshipStatus,omitempty"`
	VisaType          string `json:"visaType,omitempty" bson:"visaType,omitempty"`
	VisaOther         string `json:"visaOther,omitempty" bson:"visaOther,omitempty"`

	// PassportPhoto is a data URL or an already hosted image URL.
	PassportPhoto string `json:"passportPhoto,omitempty" bson:"passportPhoto,omitempty"`
	ShareCode     string `json:"shareCode,omitempty" bson:"shareCode,omitempty"`

	UniName          string `json:"uniName,omitempty" bson:"uniName,omitempty"`
	CourseName       string `json:"courseName,omitempty" bson:"courseName,omitempty"`
	TermStart        string `json:"termStart,omitempty" bson:"termStart,omitempty"`
	TermEnd          string `json:"termEnd,omitempty" bson:"termEnd,omitempty"`
	HasAgreedToHours bool   `json:"hasAgreedToHours,omitempty" bson:"hasAgreedToHours,omitempty"`

	EmploymentType        string `json:"employmentType,omitempty" bson:"employmentType,omitempty"`
	WorkPreference        string `json:"workPreference,omitempty" bson:"workPreference,omitempty"`
	AvailabilityToStart   string `json:"availabilityToStart,omitempty" bson:"availabilityToStart,omitempty"`
	PreferredShiftPattern string `json:"preferredShiftPattern,omitempty" bson:"preferredShiftPattern,omitempty"`

	// HasDBS is nil until the applicant answers the question.
	HasDBS *bool `json:"hasDBS" bson:"hasDBS"`

	Declarations Declarations `json:"declarations" bson:"declarations"`
	Attachments  Attachments  `json:"attachments" bson:"attachments"`
}

type PersonalDetails struct {
	Name        string `json:"name" bson:"name"`
	Email       string `json:"email" bson:"email"`
	PhoneNumber string `json:"phoneNumber" bson:"phoneNumber"`
	Dob         string `json:"dob" bson:"dob"`
	Address     string `json:"address" bson:"address"`
	Gender      string `json:"gender" bson:"gender"`
}

type Declarations struct {
	Accuracy bool `json:"accuracy" bson:"accuracy"`
	Rtw      bool `json:"rtw" bson:"rtw"`
	Approval bool `json:"approval" bson:"approval"`
	Gdpr     bool `json:"gdpr" bson:"gdpr"`
}

// Attachment is an uploaded file held inline as a data URL.
type Attachment struct {
	Name    string `json:"name" bson:"name"`
	DataURL string `json:"dataUrl" bson:"dataUrl"`
}

func (a *Attachment) Present() bool {
	return a != nil && a.DataURL != ""
}

type Attachments struct {
	ShareCodeScreenshot *Attachment `json:"shareCodeScreenshot,omitempty" bson:"shareCodeScreenshot,omitempty"`
	Passport            *Attachment `json:"passport,omitempty" bson:"passport,omitempty"`
	Brp                 *Attachment `json:"brp,omitempty" bson:"brp,omitempty"`
	ResidenceCard       *Attachment `json:"residenceCard,omitempty" bson:"residenceCard,omitempty"`
	DrivingLicence      *Attachment `json:"drivingLicence,omitempty" bson:"drivingLicence,omitempty"`
	TermDatesDocument   *Attachment `json:"termDatesDocument,omitempty" bson:"termDatesDocument,omitempty"`
	DbsCertificate      *Attachment `json:"dbsCertificate,omitempty" bson:"dbsCertificate,omitempty"`
	SalarySlip          *Attachment `json:"salarySlip,omitempty" bson:"salarySlip,omitempty"`
}

func (a Attachments) HasIdentityDocument() bool {
	return a.Passport.Present() || a.Brp.Present() || a.ResidenceCard.Present() || a.DrivingLicence.Present()
}

// Normalize stamps the current version on data saved by older clients.
func (f *FormData) Normalize() {
	if f.Version == 0 {
		f.Version = FormVersion
	}
}

func (f *FormData) IsBritishOrIrish() bool {
	return f.CitizenshipStatus == CitizenshipUK || f.CitizenshipStatus == CitizenshipIrish
}
