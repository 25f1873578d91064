package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	Type  string `json:"type" validate:"required,oneof=BUG IMPROVEMENT TASK"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=5"`
}

func TestStructValid(t *testing.T) {
	require.Nil(t, Struct(sampleRequest{Title: "t", Type: "BUG"}))
	require.Nil(t, Struct(sampleRequest{Title: "t", Type: "TASK", Count: 5}))
}

func TestStructReportsWireFieldNames(t *testing.T) {
	details := Struct(sampleRequest{Type: "BUG"})
	require.Len(t, details, 1)
	require.Equal(t, "is required", details["title"])
}

func TestStructMessages(t *testing.T) {
	details := Struct(sampleRequest{
		Title: strings.Repeat("x", 201),
		Type:  "EPIC",
		Count: 9,
	})
	require.Equal(t, "must be at most 200 characters", details["title"])
	require.Equal(t, "must be one of: BUG, IMPROVEMENT, TASK", details["type"])
	require.Equal(t, "must be at most 5", details["count"])
}
