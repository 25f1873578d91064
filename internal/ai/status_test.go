package ai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractHTTPStatus(t *testing.T) {
	tests := []struct {
		name   string
		detail string
		want   string
	}{
		{name: "valid status", detail: `{"status":429,"response":{"error":"rate limit"}}`, want: "429"},
		{name: "status only", detail: `{"status":503}`, want: "503"},
		{name: "missing status", detail: `{"error":"connection refused"}`, want: StatusUnknown},
		{name: "empty detail", detail: ``, want: StatusUnknown},
		{name: "empty object", detail: `{}`, want: StatusUnknown},
		{name: "not an object", detail: `[1,2,3]`, want: StatusUnknown},
		{name: "malformed json", detail: `{"status":`, want: StatusUnknown},
		{name: "non-numeric status", detail: `{"status":"bad gateway"}`, want: StatusUnknown},
		{name: "status below range", detail: `{"status":42}`, want: StatusUnknown},
		{name: "status above range", detail: `{"status":6000}`, want: StatusUnknown},
		{name: "null status", detail: `{"status":null}`, want: StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractHTTPStatus(json.RawMessage(tt.detail)))
		})
	}
}

func TestRawBody(t *testing.T) {
	require.JSONEq(t, `{"error":"x"}`, string(rawBody([]byte(`{"error":"x"}`))))
	require.JSONEq(t, `{"raw":"<html>502</html>"}`, string(rawBody([]byte(`<html>502</html>`))))
}
