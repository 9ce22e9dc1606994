// Package httpx renders API Gateway responses in the service's envelope
// convention: successes carry {"success": true, ...}, failures carry
// {"success": false, "error": ...} with the status encoding the category.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"github.com/cshls/claims-backend/internal/apperr"
)

// JSON creates a JSON response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: string(b),
	}, nil
}

// Fail creates a failure envelope with an explicit status code.
func Fail(status int, msg string) (events.APIGatewayV2HTTPResponse, error) {
	return JSON(status, map[string]any{"success": false, "error": msg})
}

// Err maps an error onto the failure envelope, deriving the status code from
// the apperr category.
func Err(err error) (events.APIGatewayV2HTTPResponse, error) {
	return Fail(StatusOf(err), err.Error())
}

// StatusOf resolves the HTTP status code for an error's category.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindAccessDenied:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
