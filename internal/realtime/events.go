package realtime

import "encoding/json"

// Outbound messages.

type sessionUpdate struct {
	Type    string         `json:"type"`
	Session sessionPayload `json:"session"`
}

type sessionPayload struct {
	Voice             string `json:"voice"`
	OutputAudioFormat string `json:"output_audio_format"`
}

type responseCreate struct {
	Type     string          `json:"type"`
	Response responsePayload `json:"response"`
}

type responsePayload struct {
	Modalities      []string    `json:"modalities"`
	Instructions    string      `json:"instructions"`
	Input           []inputItem `json:"input"`
	MaxOutputTokens int         `json:"max_output_tokens"`
}

type inputItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Inbound events, discriminated by the provider's "type" field. Each known
// type gets its own struct; everything else is ignored.

type errorEvent struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type textDeltaEvent struct {
	Delta string `json:"delta"`
}

type textDoneEvent struct {
	Text string `json:"text"`
}

type audioDeltaEvent struct {
	Delta string `json:"delta"`
}

type responseDoneEvent struct {
	Response struct {
		Status        string `json:"status"`
		StatusDetails struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"status_details"`
		Output []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
		Usage struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
			TotalTokens  int `json:"total_tokens"`
		} `json:"usage"`
	} `json:"response"`
}

// parseEvent decodes a raw provider message into one of the typed events
// above, or nil for unknown or unparseable messages.
func parseEvent(data []byte) any {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil
	}

	switch head.Type {
	case "error":
		ev := &errorEvent{}
		if json.Unmarshal(data, ev) != nil {
			return nil
		}
		return ev
	case "response.text.delta":
		ev := &textDeltaEvent{}
		if json.Unmarshal(data, ev) != nil {
			return nil
		}
		return ev
	case "response.text.done":
		ev := &textDoneEvent{}
		if json.Unmarshal(data, ev) != nil {
			return nil
		}
		return ev
	case "response.audio.delta", "response.output_audio.delta":
		// Two spellings of the same event, depending on provider version.
		ev := &audioDeltaEvent{}
		if json.Unmarshal(data, ev) != nil {
			return nil
		}
		return ev
	case "response.done":
		ev := &responseDoneEvent{}
		if json.Unmarshal(data, ev) != nil {
			return nil
		}
		return ev
	default:
		return nil
	}
}
