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
	"encoding/base64"
	"errors"
	"mime"
	"path/filepath"
	"strings"
)

var ErrMalformedDataURL = errors.New("malformed data url")

// File is an attachment decoded back from its inline form.
type File struct {
	Name      string
	MediaType string
	Data      []byte
}

func IsDataURL(s string) bool {
	return strings.HasPrefix(s, "data:")
}

func splitDataURL(s string) (mediaType string, payload string, base64Encoded bool, err error) {
	if !IsDataURL(s) {
		return "", "", false, ErrMalformedDataURL
	}
	header, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return "", "", false, ErrMalformedDataURL
	}
	if strings.HasSuffix(header, ";base64") {
		base64Encoded = true
		header = strings.TrimSuffix(header, ";base64")
	}
	mediaType, _, _ = strings.Cut(header, ";")
	if mediaType == "" {
		mediaType = "text/plain"
	}
	return mediaType, payload, base64Encoded, nil
}

// InspectDataURL returns the media type and decoded size without decoding.
func InspectDataURL(s string) (string, int, error) {
	mediaType, payload, b64, err := splitDataURL(s)
	if err != nil {
		return "", 0, err
	}
	if !b64 {
		return mediaType, len(payload), nil
	}
	padding := len(payload) - len(strings.TrimRight(payload, "="))
	return mediaType, len(payload)/4*3 - padding, nil
}

func DecodeDataURL(s string) (mediaType string, data []byte, err error) {
	mediaType, payload, b64, err := splitDataURL(s)
	if err != nil {
		return "", nil, err
	}
	if !b64 {
		return mediaType, []byte(payload), nil
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, ErrMalformedDataURL
	}
	return mediaType, data, nil
}

func EncodeDataURL(mediaType string, data []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode restores the attachment as a file.
func (a *Attachment) Decode() (*File, error) {
	if !a.Present() {
		return nil, ErrMalformedDataURL
	}
	mediaType, data, err := DecodeDataURL(a.DataURL)
	if err != nil {
		return nil, err
	}
	return &File{Name: a.Name, MediaType: mediaType, Data: data}, nil
}

// Extension picks a file extension for the attachment, preferring its name.
func (f *File) Extension() string {
	if ext := filepath.Ext(f.Name); ext != "" {
		return strings.ToLower(ext)
	}
	if exts, err := mime.ExtensionsByType(f.MediaType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

// Named lists the attachments that carry a file, keyed by form field.
func (a Attachments) Named() map[string]*Attachment {
	out := make(map[string]*Attachment)
	for key, att := range map[string]*Attachment{
		"shareCodeScreenshot": a.ShareCodeScreenshot,
		"passport":            a.Passport,
		"brp":                 a.Brp,
		"residenceCard":       a.ResidenceCard,
		"drivingLicence":      a.DrivingLicence,
		"termDatesDocument":   a.TermDatesDocument,
		"dbsCertificate":      a.DbsCertificate,
		"salarySlip":          a.SalarySlip,
	} {
		if att.Present() {
			out[key] = att
		}
	}
	return out
}

// Restore decodes every attachment and drops the ones that no longer decode,
// returning the names of the dropped fields.
func (a *Attachments) Restore() (map[string]*File, []string) {
	files := make(map[string]*File)
	var dropped []string
	for _, slot := range []struct {
		key string
		att **Attachment
	}{
		{"shareCodeScreenshot", &a.ShareCodeScreenshot},
		{"passport", &a.Passport},
		{"brp", &a.Brp},
		{"residenceCard", &a.ResidenceCard},
		{"drivingLicence", &a.DrivingLicence},
		{"termDatesDocument", &a.TermDatesDocument},
		{"dbsCertificate", &a.DbsCertificate},
		{"salarySlip", &a.SalarySlip},
	} {
		if *slot.att == nil {
			continue
		}
		file, err := (*slot.att).Decode()
		if err != nil {
			*slot.att = nil
			dropped = append(dropped, slot.key)
			continue
		}
		files[slot.key] = file
	}
	return files, dropped
}
