// Copyright 2026 The CamIO Authors
// SPDX-License-Identifier: Apache-2.0

package realtime

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrProtocol reports a malformed inbound message or a model-reported
// failure. Fatal unless explicitly whitelisted (see
// errorCodeActiveResponse).
var ErrProtocol = errors.New("protocol error")

// errorCodeActiveResponse is the one protocol error the model reports
// that is logged and ignored rather than escalated: asking for a
// response while one is already in flight.
const errorCodeActiveResponse = "conversation_already_has_active_response"

// Channel is the ordered, reliable byte-message conduit the session
// sends protocol traffic over. *transport.MessageChannel satisfies it
// through the transportAdapter; tests use in-process fakes.
type Channel interface {
	Send(data []byte) error
}

// serverEvent is the closed tagged union of inbound protocol events.
// Only the fields relevant to the handled event types are declared;
// unknown fields and unknown types are ignored.
type serverEvent struct {
	Type    string `json:"type"`
	EventID string `json:"event_id"`

	// Error is present on "error" events.
	Error *serverError `json:"error,omitempty"`

	// Item is present on conversation.item.added / .done events.
	Item *serverItem `json:"item,omitempty"`

	// Delta carries streamed output text or transcript fragments.
	Delta string `json:"delta,omitempty"`

	// Text is the complete text on response.output_text.done.
	Text string `json:"text,omitempty"`

	// Transcript is the complete transcript on
	// response.output_audio_transcript.done.
	Transcript string `json:"transcript,omitempty"`

	// Response is present on response.done.
	Response *serverResponse `json:"response,omitempty"`

	// Name distinguishes function calls on
	// response.function_call_arguments.done.
	Name string `json:"name,omitempty"`
}

// serverError is the error body of an "error" event or a failed
// response's status details.
type serverError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// serverItem is the conversation item body on item lifecycle events.
type serverItem struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Content []contentPart `json:"content,omitempty"`
}

// serverResponse is the response body on response.done.
type serverResponse struct {
	Status        string `json:"status,omitempty"`
	StatusDetails *struct {
		Error *serverError `json:"error,omitempty"`
	} `json:"status_details,omitempty"`
	Usage *struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Output []struct {
		Type string `json:"type"`
	} `json:"output,omitempty"`
}

// parseServerEvent decodes one inbound message. A message without a
// type is a protocol error; everything else parses permissively.
func parseServerEvent(data []byte) (*serverEvent, error) {
	var event serverEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocol, err)
	}
	if event.Type == "" {
		return nil, fmt.Errorf("%w: message without type", ErrProtocol)
	}
	return &event, nil
}

// contentPart is one entry of a conversation item's ordered content
// list: input_text, input_image, or output_text.
type contentPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// textPart builds an input_text content part.
func textPart(text string) contentPart {
	return contentPart{Type: "input_text", Text: text}
}

// imagePart builds an input_image content part from a data URL.
func imagePart(dataURL string) contentPart {
	return contentPart{Type: "input_image", ImageURL: dataURL}
}

// clientEvent is the envelope for outbound protocol messages. Every
// outbound event carries a generated event_id for correlation in the
// model's logs.
type clientEvent struct {
	Type     string        `json:"type"`
	EventID  string        `json:"event_id"`
	Session  any           `json:"session,omitempty"`
	Item     *clientItem   `json:"item,omitempty"`
	ItemID   string        `json:"item_id,omitempty"`
	Response *responseOpts `json:"response,omitempty"`
}

// clientItem is an outbound conversation.item.create body.
type clientItem struct {
	Type    string        `json:"type"`
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

// responseOpts carries optional inline instructions or an
// output-modality override on response.create.
type responseOpts struct {
	Instructions     string   `json:"instructions,omitempty"`
	OutputModalities []string `json:"output_modalities,omitempty"`
}

// send marshals and transmits one outbound event, stamping a fresh
// event_id.
func send(channel Channel, event clientEvent) error {
	event.EventID = uuid.NewString()
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", event.Type, err)
	}
	if err := channel.Send(data); err != nil {
		return fmt.Errorf("sending %s: %w", event.Type, err)
	}
	return nil
}

// sendSessionUpdate transmits a session.update with the given session
// payload.
func sendSessionUpdate(channel Channel, session any) error {
	return send(channel, clientEvent{Type: "session.update", Session: session})
}

// sendUserItem adds a user message with the given content parts to the
// remote conversation.
func sendUserItem(channel Channel, content []contentPart) error {
	return send(channel, clientEvent{
		Type: "conversation.item.create",
		Item: &clientItem{Type: "message", Role: "user", Content: content},
	})
}

// sendAssistantItem adds an assistant message to the remote
// conversation. Used for the fictitious turn that keeps the model from
// treating position metadata as a conversational request.
func sendAssistantItem(channel Channel, text string) error {
	return send(channel, clientEvent{
		Type: "conversation.item.create",
		Item: &clientItem{
			Type: "message",
			Role: "assistant",
			Content: []contentPart{{Type: "output_text", Text: text}},
		},
	})
}

// sendItemDelete removes a conversation item from the remote context.
func sendItemDelete(channel Channel, itemID string) error {
	return send(channel, clientEvent{Type: "conversation.item.delete", ItemID: itemID})
}

// sendResponseCreate requests a model response, optionally with inline
// instructions or an output-modality override.
func sendResponseCreate(channel Channel, opts *responseOpts) error {
	return send(channel, clientEvent{Type: "response.create", Response: opts})
}
