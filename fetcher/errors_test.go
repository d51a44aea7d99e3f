package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name        string
		code        ErrorCode
		message     string
		wantMessage string
	}{
		{
			name:        "given explicit message, then keeps it",
			code:        CodeNotFound,
			message:     "no such row",
			wantMessage: "no such row",
		},
		{
			name:        "given empty message, then humanizes the code",
			code:        CodeNotFound,
			wantMessage: "Not Found",
		},
		{
			name:        "given multi-word code, then title-cases every word",
			code:        CodeResourceAlreadyExists,
			wantMessage: "Resource Already Exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewError(tt.code, tt.message)

			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.wantMessage, e.Message)
			assert.NotNil(t, e.Metadata)
		})
	}
}

func TestError_Error(t *testing.T) {
	e := NewError(CodeServerError, "")
	assert.Equal(t, "server_error: Server Error", e.Error())

	e.Service = ServiceStorage
	assert.Equal(t, "server_error: Server Error (service=storage)", e.Error())
}

func TestError_MergeMetadata(t *testing.T) {
	e := NewError(CodeUnexpected, "")
	e.Metadata["status"] = 500

	e.MergeMetadata(map[string]any{"status": 200, "path": "/todos"})

	assert.Equal(t, 500, e.Metadata["status"], "existing keys win, creation site is more specific")
	assert.Equal(t, "/todos", e.Metadata["path"])
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"not_found", "Not Found"},
		{"resource_already_exists", "Resource Already Exists"},
		{"enoent", "Enoent"},
		{"gateway-timeout", "Gateway Timeout"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(tt.in), "Humanize(%q)", tt.in)
	}
}

func TestStatusToCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{400, CodeBadRequest},
		{401, CodeUnauthorized},
		{403, CodeForbidden},
		{404, CodeNotFound},
		{405, CodeMethodNotAllowed},
		{409, CodeResourceAlreadyExists},
		{411, CodeMissingContentLength},
		{413, CodeContentTooLarge},
		{416, CodeInvalidRange},
		{422, CodeUnprocessableEntity},
		{423, CodeResourceLocked},
		{429, CodeTooManyRequests},
		{500, CodeServerError},
		{501, CodeNotImplemented},
		{503, CodeServiceUnavailable},
		{504, CodeGatewayTimeout},
		{499, CodeUnexpected},
		{418, CodeUnexpected},
		{502, CodeUnexpected},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusToCode(tt.status), "StatusToCode(%d)", tt.status)
	}
}
