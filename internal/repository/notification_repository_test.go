package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Search terms are literal substrings; LIKE metacharacters in the term
// must not act as wildcards.
func TestLikeEscape(t *testing.T) {
	require.Equal(t, `50\%`, likeEscape("50%"))
	require.Equal(t, `a\_b`, likeEscape("a_b"))
	require.Equal(t, `c:\\temp`, likeEscape(`c:\temp`))
	require.Equal(t, `\\\%\_`, likeEscape(`\%_`))
	require.Equal(t, "camera", likeEscape("camera"))
	require.Equal(t, "", likeEscape(""))
}
