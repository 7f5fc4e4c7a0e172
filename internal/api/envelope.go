package api

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/mahabbalab/mahabba-server/internal/http/response"
)

// EnvelopeTransformer wraps every huma response body in the versioned
// envelope. Errors arrive as *APIError and land in the "error" field.
func EnvelopeTransformer(_ huma.Context, _ string, v any) (any, error) {
	switch body := v.(type) {
	case response.Envelope:
		return body, nil
	case *APIError:
		return response.Fail(body.Code, body.Message, body.Details), nil
	default:
		return response.Ok(v), nil
	}
}
