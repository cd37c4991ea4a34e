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

package http

import "net/http"

var (
	Failed                        = failed(http.StatusInternalServerError, 500, "Request failed")
	InternalError                 = failed(http.StatusInternalServerError, 5000, "Internal error, please contact the administrator")
	RequestParameterParsingFailed = failed(http.StatusBadRequest, 5001, "Request parameter parsing failed")
	MailDeliveryFailed            = failed(http.StatusBadGateway, 5020, "Failed to send email")
	StorageUnavailable            = failed(http.StatusServiceUnavailable, 5030, "Object storage is not configured")

	// 400
	BadRequest       = failed(http.StatusBadRequest, 4000, "Bad request")
	ValidationFailed = failed(http.StatusBadRequest, 4001, "Validation failed")
	InvalidEmail     = failed(http.StatusBadRequest, 4002, "Invalid email format")
	InvalidStep      = failed(http.StatusBadRequest, 4003, "Valid step number (1-10) is required")
	NotFound         = failed(http.StatusNotFound, 4004, "Not found")

	// 401 / 403, the client must re-authenticate
	Unauthorized         = failed(http.StatusUnauthorized, 4401, "No valid authentication token provided")
	InvalidToken         = failed(http.StatusUnauthorized, 4405, "Invalid or expired authentication token")
	TokenBeEmpty         = failed(http.StatusUnauthorized, 4406, "Token cannot be empty")
	TokenExpired         = failed(http.StatusUnauthorized, 4407, "Token is expired")
	TokenRevoked         = failed(http.StatusUnauthorized, 4408, "Token has been revoked")
	Forbidden            = failed(http.StatusForbidden, 4030, "Forbidden")
	EmployeeRoleRequired = failed(http.StatusForbidden, 4031, "Access denied. Employee role required.")
	OnboardingNotAllowed = failed(http.StatusForbidden, 4032, "Onboarding access not granted")
	TokenMismatch        = failed(http.StatusForbidden, 4033, "Token does not match invitation")

	// 404
	InvitationNotFound = failed(http.StatusNotFound, 4041, "Invitation not found")
	CleanerNotFound    = failed(http.StatusNotFound, 4042, "Cleaner not found")
	DocumentNotFound   = failed(http.StatusNotFound, 4043, "Document not found")
	ProgressNotFound   = failed(http.StatusNotFound, 4044, "No saved progress found for this invitation")

	// 409 duplicates
	EmailAlreadyStaff       = failed(http.StatusConflict, 4091, "This email already exists in the staff list")
	InvitationAlreadyExists = failed(http.StatusConflict, 4092, "An invitation already exists for this email")
	CleanerAlreadyExists    = failed(http.StatusConflict, 4093, "A cleaner with this email or ID already exists")

	// state conflicts
	StepOrderViolation      = failed(http.StatusConflict, 4221, "Cannot go backwards")
	MustStartFromStepOne    = failed(http.StatusConflict, 4222, "Must start from step 1")
	InvitationCompleted     = failed(http.StatusConflict, 4223, "This invitation has already been completed")
	InvitationExpired       = failed(http.StatusGone, 4224, "This invitation has expired")
	InvalidStatusTransition = failed(http.StatusConflict, 4225, "Invalid invitation status transition")

	// otp
	OtpExpired         = failed(http.StatusBadRequest, 4411, "The OTP has expired. Please request a new one.")
	OtpInvalid         = failed(http.StatusBadRequest, 4412, "The OTP you entered is incorrect")
	OtpTooManyAttempts = failed(http.StatusTooManyRequests, 4291, "Too many incorrect attempts. Please request a new OTP.")
)

var (
	Success = success(200, "Request Success")
	Created = success(201, "Created")
)

func failed(status, code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		status: status,
	}
}

func success(code int, msg string) *Response {
	return &Response{
		Code:   code,
		Msg:    msg,
		status: code,
	}
}
