package dashboard

import (
	"errors"

	"storefront-web/internal/domain"
)

// MessageKind colours a banner.
type MessageKind string

const (
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Message is a panel-scoped banner. The zero value shows nothing.
type Message struct {
	Kind MessageKind `json:"type,omitempty"`
	Text string      `json:"text,omitempty"`
}

// Empty reports whether there is nothing to show.
func (m Message) Empty() bool {
	return m.Text == ""
}

func successMessage(text string) Message {
	return Message{Kind: MessageSuccess, Text: text}
}

func errorMessage(err error, fallback string) Message {
	text := ""
	if err != nil {
		text = err.Error()
	}
	if text == "" {
		text = fallback
	}
	return Message{Kind: MessageError, Text: text}
}

func isUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
