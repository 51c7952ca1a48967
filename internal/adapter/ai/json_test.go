package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare json untouched",
			raw:  `{"ok": true}`,
			want: `{"ok": true}`,
		},
		{
			name: "json fence with language tag",
			raw:  "```json\n{\"ok\": true}\n```",
			want: `{"ok": true}`,
		},
		{
			name: "fence without language tag",
			raw:  "```\n[1, 2, 3]\n```",
			want: "[1, 2, 3]",
		},
		{
			name: "surrounding whitespace",
			raw:  "\n\n  {\"ok\": true}  \n",
			want: `{"ok": true}`,
		},
		{
			name: "single backticks",
			raw:  "`{\"ok\": true}`",
			want: `{"ok": true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.raw))
		})
	}
}

func TestDecodeJSONFencedObject(t *testing.T) {
	var out struct {
		Score int `json:"score"`
	}
	err := DecodeJSON("```json\n{\"score\": 87}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, 87, out.Score)
}

func TestDecodeJSONProseFails(t *testing.T) {
	var out map[string]any
	err := DecodeJSON("The candidate looks strong overall.", &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse model response")
}
