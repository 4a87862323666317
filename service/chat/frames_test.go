package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignalRecognizedTypes(t *testing.T) {
	for _, typ := range []string{SignalOffer, SignalAnswer, SignalICECandidate} {
		env, err := ParseSignalJSON([]byte(`{"type":"` + typ + `","target":"bob","sdp":"v=0"}`))
		require.NoError(t, err)
		assert.Equal(t, typ, env.Type)
		assert.Equal(t, "bob", env.Target)
		assert.True(t, env.Routable())
	}
}

func TestParseSignalUnknownTypeIsInert(t *testing.T) {
	env, err := ParseSignalJSON([]byte(`{"type":"chat","target":"bob"}`))
	require.NoError(t, err)
	assert.False(t, env.Routable())
}

func TestParseSignalMissingTargetIsInert(t *testing.T) {
	env, err := ParseSignalJSON([]byte(`{"type":"offer"}`))
	require.NoError(t, err)
	assert.False(t, env.Routable())
}

func TestParseSignalMalformed(t *testing.T) {
	_, err := ParseSignalJSON([]byte(`{not json`))
	assert.Error(t, err)
}

// The relay forwards the raw frame, not a re-serialization: fields the
// envelope never modeled must reach the target byte for byte.
func TestSignalRelayedVerbatim(t *testing.T) {
	raw := []byte(`{"type":"offer","target":"bob","sdp":"v=0\r\no=- 1 1 IN IP4 0.0.0.0","extra":{"k":1}}`)

	env, err := ParseSignalJSON(raw)
	require.NoError(t, err)
	require.True(t, env.Routable())

	reg := NewRegistry()
	bob := &stubConn{}
	reg.Bind("bob", bob)
	reg.Forward(env.Target, raw)

	require.Len(t, bob.got(), 1)
	assert.Equal(t, string(raw), bob.got()[0])
}
