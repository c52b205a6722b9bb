package rtc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestICEServers(t *testing.T) {
	servers := ICEServers([]string{"stun:stun.l.google.com:19302", "stun:stun1.example.org:3478"})
	require.Len(t, servers, 2)
	assert.Equal(t, []string{"stun:stun.l.google.com:19302"}, servers[0].URLs)
}

func TestICEServersEmpty(t *testing.T) {
	assert.Empty(t, ICEServers(nil))
}
