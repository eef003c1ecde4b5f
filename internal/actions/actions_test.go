package actions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePlayerName(t *testing.T) {
	name, err := ValidatePlayerName("  Ash_Ketchum ")
	require.NoError(t, err)
	assert.Equal(t, "Ash_Ketchum", name)

	for _, bad := range []string{"", "   ", "ab", "no spaces", "héro", "way_too_long_player_name", "semi;colon"} {
		_, err := ValidatePlayerName(bad)
		require.Error(t, err, "name %q should be rejected", bad)
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr)
	}
}

func TestKindClassification(t *testing.T) {
	assert.True(t, ServerRestart.Known())
	assert.True(t, ServerRestart.Exclusive())
	assert.False(t, ServerRestart.TargetsPlayer())

	assert.True(t, PlayerAdd.TargetsPlayer())
	assert.False(t, PlayerAdd.Exclusive())

	assert.False(t, Kind("server.explode").Known())
}

func TestTruncateKeepsTail(t *testing.T) {
	long := strings.Repeat("x", outputTailLimit) + "tail"
	got := Truncate(long)
	assert.Len(t, got, outputTailLimit)
	assert.True(t, strings.HasSuffix(got, "tail"))

	assert.Equal(t, "short", Truncate("short"))
}
