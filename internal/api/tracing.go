package api

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("wedding-rsvp/internal/api")
