package clients

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of an upstream error body is kept
const maxErrorBody = 512

// StatusError is returned when an upstream endpoint answers with a non-2xx status
type StatusError struct {
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s returned status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Endpoint, e.StatusCode, e.Message)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// UpstreamMessage pulls a human readable message out of an error body.
// JSON bodies shaped {message, error} are preferred, anything else is
// returned as trimmed text.
func UpstreamMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && (parsed.Message != "" || parsed.Error != "") {
		switch {
		case parsed.Message != "" && parsed.Error != "":
			return parsed.Message + ": " + parsed.Error
		case parsed.Error != "":
			return parsed.Error
		default:
			return parsed.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
