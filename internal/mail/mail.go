// Package mail composes activation emails and hands them to a transport.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"golang.org/x/text/language"
)

// Message is one outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Transport delivers messages. Send returns once the transport accepted or
// rejected the message.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// Translator renders localized message keys.
type Translator interface {
	T(tag language.Tag, key string, data map[string]any) string
}

const (
	keySubject = "activation_email_subject"
	keyBody    = "activation_email_body"
)

var activationTemplate = template.Must(template.New("activation").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<body>
<p>{{.Body}}</p>
<p><code>{{.Token}}</code></p>
</body>
</html>
`))

// Composer builds activation emails from a sender identity and the catalog.
type Composer struct {
	from       string
	translator Translator
}

// NewComposer constructs a Composer sending as from.
func NewComposer(from string, translator Translator) *Composer {
	return &Composer{from: from, translator: translator}
}

// Activation builds the activation email for a new account.
func (c *Composer) Activation(tag language.Tag, to, username, token string) (Message, error) {
	data := map[string]any{
		"Username": username,
		"Email":    to,
		"Token":    token,
	}
	var buf bytes.Buffer
	err := activationTemplate.Execute(&buf, struct {
		Lang  string
		Body  string
		Token string
	}{
		Lang:  tag.String(),
		Body:  c.translator.T(tag, keyBody, data),
		Token: token,
	})
	if err != nil {
		return Message{}, fmt.Errorf("render activation email: %w", err)
	}
	return Message{
		From:    c.from,
		To:      to,
		Subject: c.translator.T(tag, keySubject, nil),
		HTML:    buf.String(),
	}, nil
}
