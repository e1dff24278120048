package testbed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"

	"github.com/explorationlab/explorations/internal/handlers"
)

// DecodeEnvelope checks that a response is a prefixed JSON document and
// decodes it into v.
func DecodeEnvelope(contentType string, body []byte, v any) error {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != handlers.ContentTypeJSON {
		return fmt.Errorf("%w: got %q, want %q", ErrUnexpectedContentType, contentType, handlers.ContentTypeJSON)
	}

	rest, ok := bytes.CutPrefix(body, []byte(handlers.JSONPrefix))
	if !ok {
		return fmt.Errorf("%w: body does not start with the json prefix", ErrUnexpectedContentType)
	}
	if err := json.Unmarshal(rest, v); err != nil {
		return fmt.Errorf("failed to decode json response: %w", err)
	}
	return nil
}
