package transport

// ClientMessage is a signaling or media envelope from the browser endpoint.
type ClientMessage struct {
	// Event is one of "offer", "media", "close".
	Event string `json:"event"`

	// SDP carries the peer's session description on an offer. The exchange
	// itself is delegated; the server only acknowledges it.
	SDP string `json:"sdp,omitempty"`

	Media *MediaPayload `json:"media,omitempty"`
}

// MediaPayload carries one PCM block, base64-encoded S16LE.
type MediaPayload struct {
	Payload    string `json:"payload"`
	SampleRate int    `json:"sampleRate,omitempty"`
	Channels   int    `json:"channels,omitempty"`
}

// ServerMessage is an envelope from the server to the browser endpoint.
type ServerMessage struct {
	// Event is one of "answer", "media", "error".
	Event     string        `json:"event"`
	SessionID string        `json:"sessionId,omitempty"`
	Media     *MediaPayload `json:"media,omitempty"`
	Error     string        `json:"error,omitempty"`
}
