package cassette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	tests := []struct {
		mode Mode
		want Policy
	}{
		{ModeAll, Policy{AllowRealConnections: true, StubPlayback: false, DropOverlapping: true}},
		{ModeNone, Policy{AllowRealConnections: false, StubPlayback: true, DropOverlapping: false}},
		{ModeNewEpisodes, Policy{AllowRealConnections: true, StubPlayback: true, DropOverlapping: false}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			got, err := PolicyFor(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolicyForInvalidMode(t *testing.T) {
	tests := []string{"", "once", "ALL", "new-episodes"}

	for _, mode := range tests {
		t.Run("mode_"+mode, func(t *testing.T) {
			_, err := PolicyFor(Mode(mode))
			require.Error(t, err)
			assert.True(t, IsInvalidRecordMode(err))

			var modeErr *InvalidRecordModeError
			require.ErrorAs(t, err, &modeErr)
			assert.Equal(t, Mode(mode), modeErr.Mode)
			assert.Contains(t, modeErr.Error(), "valid modes: all, none, new_episodes")
		})
	}
}
