package gateway

import "github.com/lexiglot/translate-backend/internal/translate"

// Message types spoken over the browser websocket. Requests carry a client
// requestId that is echoed on the matching success or error frame.
const (
	TypeTranslateRequest   = "translate.request"
	TypeDefinitionsRequest = "translate.definitions.request"
	TypeAudioRequest       = "translate.audio.request"

	TypeTranslateSuccess   = "translate.success"
	TypeDefinitionsSuccess = "translate.definitions.success"
	TypeAudioSuccess       = "translate.audio.success"
	TypeError              = "translate.error"
)

type ClientMessage struct {
	Type           string `json:"type"`
	RequestID      string `json:"requestId,omitempty"`
	Text           string `json:"text,omitempty"`
	Word           string `json:"word,omitempty"`
	Context        string `json:"context,omitempty"`
	TargetLanguage string `json:"targetLanguage,omitempty"`
}

type ServerMessage struct {
	Type        string                 `json:"type"`
	RequestID   string                 `json:"requestId,omitempty"`
	Words       []translate.WordPair   `json:"words,omitempty"`
	Definitions []translate.Definition `json:"definitions,omitempty"`
	Audio       string                 `json:"audio,omitempty"`
	MimeType    string                 `json:"mimeType,omitempty"`
	Error       string                 `json:"error,omitempty"`
}
