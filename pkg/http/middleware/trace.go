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

package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/xpect-group/portal/pkg/http/middleware"

// TraceMiddleware starts a server span per request and stores it in the
// fiber user context so services and repos inherit it.
func TraceMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		carrier := propagation.MapCarrier{}
		for key, value := range c.Request().Header.All() {
			carrier.Set(string(key), string(value))
		}
		ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

		start := time.Now()
		ctx, span := otel.Tracer(tracerName).Start(ctx, c.Method()+" "+c.Path(), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()
		c.SetUserContext(ctx)

		attrs := []attribute.KeyValue{
			attribute.String("http.method", c.Method()),
			attribute.String("http.target", c.OriginalURL()),
		}
		if id, ok := c.Locals(RequestIDKey).(string); ok && id != "" {
			attrs = append(attrs, attribute.String("http.request.id", id))
		}
		if ip, ok := c.Locals("ip").(string); ok && ip != "" {
			attrs = append(attrs, attribute.String("net.peer.ip", ip))
		}
		span.SetAttributes(attrs...)

		err := c.Next()

		statusCode := c.Response().StatusCode()
		span.SetAttributes(
			attribute.Int("http.status_code", statusCode),
			attribute.Int64("http.duration_ms", time.Since(start).Milliseconds()),
		)
		switch {
		case err != nil:
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		case statusCode >= 500:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		default:
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}
