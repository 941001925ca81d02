package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGlobMatch(t *testing.T) {
	for _, tt := range []struct {
		pattern string
		line    string
		want    bool
	}{
		{"info depth * score cp *", "info depth 5 score cp 34", true},
		{"info depth * score cp *", "info depth 5 seldepth 6 score cp 34 nodes 100", true},
		{"info depth * score cp *", "info depth 5 score mate 3", false},
		{"* score mate 1 * pv d5e6", "info depth 18 score mate 1 nodes 4242 pv d5e6", true},
		{"* score mate 1 * pv d5e6", "info depth 18 score mate -1 nodes 4242 pv d5e6", false},
		{"bestmove ????", "bestmove e2e4", true},
		{"bestmove ????", "bestmove e2e4q", false},
		{"uciok", "uciok", true},
		{"uciok", "uciok ", false},
		// '*' crosses '/', unlike path.Match: FEN strings carry slashes.
		{"position fen *", "position fen 5rk1/1K4p1/8/8/3B4/8/8/8 b - - 0 1", true},
		// regexp metacharacters in the pattern are literal
		{"score (cp) [*]", "score (cp) [34]", true},
		{"", "", true},
		{"", "x", false},
		{"*", "anything at all", true},
	} {
		got, err := GlobMatch(tt.pattern, tt.line)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "pattern %q vs line %q", tt.pattern, tt.line)
	}
}

func TestGlobMatchesWholeLine(t *testing.T) {
	got, err := GlobMatch("depth 5", "info depth 5 score cp 1")
	require.NoError(t, err)
	assert.False(t, got, "pattern must be anchored to the full line")
}
