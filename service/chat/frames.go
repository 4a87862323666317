package chat

import (
	"encoding/json"
	"fmt"
)

// Signal types the relay recognizes. Everything else is accepted by the
// transport but treated as inert.
const (
	SignalOffer        = "offer"
	SignalAnswer       = "answer"
	SignalICECandidate = "ice-candidate"
)

// SignalEnvelope is the WebRTC negotiation envelope. Only type and target are
// inspected; sdp/candidate payloads ride along and are forwarded verbatim.
type SignalEnvelope struct {
	Type   string `json:"type"`
	Target string `json:"target"`
}

func ParseSignalJSON(raw []byte) (*SignalEnvelope, error) {
	env := &SignalEnvelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("unmarshal signal frame failed: %w", err)
	}
	return env, nil
}

// Routable reports whether the relay should forward this frame.
func (e *SignalEnvelope) Routable() bool {
	if e.Target == "" {
		return false
	}
	switch e.Type {
	case SignalOffer, SignalAnswer, SignalICECandidate:
		return true
	}
	return false
}
