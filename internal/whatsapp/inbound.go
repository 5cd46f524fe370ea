package whatsapp

import (
	"encoding/json"
	"strings"
)

// InboundMessage is one client reply, provider-shape already stripped.
type InboundMessage struct {
	From string // raw sender phone as the provider reports it
	Text string
}

// ParseTwilioForm extracts the inbound message from Twilio-style
// form-encoded webhook fields.
func ParseTwilioForm(from, body string) InboundMessage {
	return InboundMessage{
		From: strings.TrimPrefix(strings.TrimSpace(from), "whatsapp:"),
		Text: strings.TrimSpace(body),
	}
}

// evolutionPayload mirrors the subset of the Evolution API webhook body we
// consume. Poll votes and plain text arrive under different keys.
type evolutionPayload struct {
	Data struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
		} `json:"key"`
		Message struct {
			Conversation string `json:"conversation"`
			ExtendedText struct {
				Text string `json:"text"`
			} `json:"extendedTextMessage"`
			PollUpdate struct {
				Vote struct {
					SelectedOptions []struct {
						Name string `json:"name"`
					} `json:"selectedOptions"`
				} `json:"vote"`
			} `json:"pollUpdateMessage"`
		} `json:"message"`
	} `json:"data"`
}

// ParseEvolutionBody extracts the inbound message from an Evolution API
// webhook JSON body. Returns ok=false when the body carries no usable text.
func ParseEvolutionBody(body []byte) (InboundMessage, bool) {
	var payload evolutionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return InboundMessage{}, false
	}

	from := payload.Data.Key.RemoteJid
	if idx := strings.Index(from, "@"); idx >= 0 {
		from = from[:idx]
	}
	from = strings.TrimSpace(from)
	if from == "" {
		return InboundMessage{}, false
	}

	text := strings.TrimSpace(payload.Data.Message.Conversation)
	if text == "" {
		text = strings.TrimSpace(payload.Data.Message.ExtendedText.Text)
	}
	if text == "" {
		options := payload.Data.Message.PollUpdate.Vote.SelectedOptions
		if len(options) > 0 {
			text = strings.TrimSpace(options[0].Name)
		}
	}
	if text == "" {
		return InboundMessage{}, false
	}
	return InboundMessage{From: from, Text: text}, true
}
