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

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

type ResponseErr struct {
	ErrCode int               `json:"code"`
	ErrMsg  any               `json:"errMsg"`
	Path    string            `json:"path,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// BizError carries an entry of the code table through the service layer.
// Msg overrides the table message when the caller needs more context.
type BizError struct {
	Base   *Response
	Msg    string
	Fields map[string]string
	Err    error
}

func (r *Response) Err() *BizError {
	return &BizError{Base: r, Msg: r.Msg}
}

func (r *Response) Errf(format string, args ...any) *BizError {
	return &BizError{Base: r, Msg: fmt.Sprintf(format, args...)}
}

// Wrap keeps cause for logs while the client only sees the table message.
func (r *Response) Wrap(cause error) *BizError {
	return &BizError{Base: r, Msg: r.Msg, Err: cause}
}

func (e *BizError) WithFields(fields map[string]string) *BizError {
	e.Fields = fields
	return e
}

func (e *BizError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *BizError) Unwrap() error {
	return e.Err
}

func (e *BizError) Is(target error) bool {
	t, ok := target.(*BizError)
	return ok && t.Base != nil && e.Base != nil && t.Base.Code == e.Base.Code
}

// IsCode reports whether err carries the given code table entry.
func IsCode(err error, r *Response) bool {
	var be *BizError
	return errors.As(err, &be) && be.Base != nil && be.Base.Code == r.Code
}

func WithRepErr(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

func WithRepErrMsg(c *fiber.Ctx, code int, errMsg string, path string) error {
	return c.JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    path,
	})
}

// WithRepBizErr writes err with the HTTP status of its code table entry.
// Errors outside the table are reported as internal errors.
func WithRepBizErr(c *fiber.Ctx, err error) error {
	var be *BizError
	if errors.As(err, &be) && be.Base != nil {
		return c.Status(be.Base.Status()).JSON(ResponseErr{
			ErrCode: be.Base.Code,
			ErrMsg:  be.Msg,
			Path:    c.Path(),
			Fields:  be.Fields,
		})
	}
	return c.Status(InternalError.Status()).JSON(ResponseErr{
		ErrCode: InternalError.Code,
		ErrMsg:  InternalError.Msg,
		Path:    c.Path(),
	})
}
