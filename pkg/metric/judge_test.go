package metric

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	require.Equal(t, `{"score": 5}`, extractJSON(`{"score": 5}`))
	require.Equal(t, `{"score": 5}`, extractJSON("```json\n{\"score\": 5}\n```"))
	require.Equal(t, `{"score": 5}`, extractJSON(`Here you go: {"score": 5} hope that helps`))
	require.Equal(t, `[1, 2]`, extractJSON(`the verdicts are [1, 2]`))
	require.Equal(t, "", extractJSON("no json here"))
}
