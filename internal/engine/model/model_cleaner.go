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

package model

import (
	"slices"
	"time"

	"github.com/xpect-group/portal/internal/engine/constant"
)

type DocumentType string

const (
	DocumentPDF DocumentType = "PDF"
	DocumentIMG DocumentType = "IMG"
	DocumentDOC DocumentType = "DOC"
)

type DocumentStatus string

const (
	DocumentVerified DocumentStatus = "Verified"
	DocumentPending  DocumentStatus = "Pending"
	DocumentRejected DocumentStatus = "Rejected"
)

type VerificationStatus string

const (
	VerificationVerified     VerificationStatus = "Verified"
	VerificationPending      VerificationStatus = "Pending"
	VerificationDocsRequired VerificationStatus = "Docs Required"
	VerificationRejected     VerificationStatus = "Rejected"
)

type DBSStatus string

const (
	DBSCleared      DBSStatus = "Cleared"
	DBSAwaitingDocs DBSStatus = "Awaiting Docs"
	DBSNotStarted   DBSStatus = "Not Started"
	DBSExpired      DBSStatus = "Expired"
)

const (
	EmploymentContractor    = "Contractor"
	EmploymentPermanent     = "Permanent"
	EmploymentTemporary     = "Temporary"
	EmploymentSubContractor = "Sub-contractor"
)

var EmploymentTypes = []string{EmploymentContractor, EmploymentPermanent, EmploymentTemporary, EmploymentSubContractor}

var (
	PayTypes         = []string{"Hourly", "Weekly", "Monthly"}
	ShiftTypes       = []string{"Morning", "Evening", "Night", "Any"}
	ContractStatuses = []string{"Active", "Paused", "Ended"}
)

func ValidEmploymentType(t string) bool {
	return slices.Contains(EmploymentTypes, t)
}

// Document is a file held on a staff record. FileURL is an inline data URL,
// or an object storage key when Stored is set.
type Document struct {
	ID         string         `bson:"id" json:"id"`
	Name       string         `bson:"name" json:"name"`
	Type       DocumentType   `bson:"type" json:"type"`
	UploadDate string         `bson:"uploadDate" json:"uploadDate"`
	Status     DocumentStatus `bson:"status" json:"status"`
	FileURL    string         `bson:"fileUrl,omitempty" json:"fileUrl,omitempty"`
	FileName   string         `bson:"fileName,omitempty" json:"fileName,omitempty"`
	Stored     bool           `bson:"stored,omitempty" json:"stored,omitempty"`
}

type Declarations struct {
	Accuracy bool `bson:"accuracy" json:"accuracy"`
	Rtw      bool `bson:"rtw" json:"rtw"`
	Approval bool `bson:"approval" json:"approval"`
	Gdpr     bool `bson:"gdpr" json:"gdpr"`
}

// Cleaner is a finalized staff record.
type Cleaner struct {
	ID                 string             `bson:"id" json:"id" expr:"id"`
	Name               string             `bson:"name" json:"name" expr:"name"`
	Email              string             `bson:"email" json:"email" expr:"email"`
	PhoneNumber        string             `bson:"phoneNumber" json:"phoneNumber" expr:"phoneNumber"`
	Dob                string             `bson:"dob" json:"dob" expr:"dob"`
	Address            string             `bson:"address" json:"address" expr:"address"`
	Gender             string             `bson:"gender" json:"gender" expr:"gender"`
	StartDate          string             `bson:"startDate" json:"startDate" expr:"startDate"`
	EmploymentType     string             `bson:"employmentType" json:"employmentType" expr:"employmentType"`
	VerificationStatus VerificationStatus `bson:"verificationStatus" json:"verificationStatus" expr:"verificationStatus"`
	Avatar             string             `bson:"avatar,omitempty" json:"avatar,omitempty" expr:"avatar"`
	DbsStatus          DBSStatus          `bson:"dbsStatus" json:"dbsStatus" expr:"dbsStatus"`
	Location           string             `bson:"location" json:"location" expr:"location"`
	OnboardingProgress int                `bson:"onboardingProgress" json:"onboardingProgress" expr:"onboardingProgress"`

	CitizenshipStatus string       `bson:"citizenshipStatus" json:"citizenshipStatus" expr:"citizenshipStatus"`
	VisaType          string       `bson:"visaType,omitempty" json:"visaType,omitempty" expr:"visaType"`
	VisaOther         string       `bson:"visaOther,omitempty" json:"visaOther,omitempty" expr:"visaOther"`
	ShareCode         string       `bson:"shareCode,omitempty" json:"shareCode,omitempty" expr:"shareCode"`
	UniName           string       `bson:"uniName,omitempty" json:"uniName,omitempty" expr:"uniName"`
	CourseName        string       `bson:"courseName,omitempty" json:"courseName,omitempty" expr:"courseName"`
	TermStart         string       `bson:"termStart,omitempty" json:"termStart,omitempty" expr:"termStart"`
	TermEnd           string       `bson:"termEnd,omitempty" json:"termEnd,omitempty" expr:"termEnd"`
	WorkPreference    string       `bson:"workPreference,omitempty" json:"workPreference,omitempty" expr:"workPreference"`
	Declarations      Declarations `bson:"declarations" json:"declarations" expr:"declarations"`
	Documents         []Document   `bson:"documents" json:"documents" expr:"documents"`

	HourlyPayRate         *float64 `bson:"hourlyPayRate,omitempty" json:"hourlyPayRate,omitempty" expr:"hourlyPayRate"`
	PayType               string   `bson:"payType,omitempty" json:"payType,omitempty" expr:"payType"`
	ShiftType             string   `bson:"shiftType,omitempty" json:"shiftType,omitempty" expr:"shiftType"`
	ContractStatus        string   `bson:"contractStatus,omitempty" json:"contractStatus,omitempty" expr:"contractStatus"`
	EndDate               string   `bson:"endDate,omitempty" json:"endDate,omitempty" expr:"endDate"`
	PreferredShiftPattern string   `bson:"preferredShiftPattern,omitempty" json:"preferredShiftPattern,omitempty" expr:"preferredShiftPattern"`
	AuditorNotes          string   `bson:"auditorNotes,omitempty" json:"auditorNotes,omitempty" expr:"auditorNotes"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt" expr:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt" expr:"updatedAt"`
}

func (Cleaner) CollectionName() string {
	return constant.CollectionCleaners
}

func (c *Cleaner) FindDocument(id string) (int, *Document) {
	for i := range c.Documents {
		if c.Documents[i].ID == id {
			return i, &c.Documents[i]
		}
	}
	return -1, nil
}
