package mailer

import (
	"errors"

	"github.com/oksasatya/bootcamp-directory/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Either the rendered bodies are set, or Template names a set of templates
// rendered with Data by the worker.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // "reset_password" or "confirm_email"
	Data     map[string]any `json:"data,omitempty"`
}

func JobFromMessage(m Message) EmailJob {
	return EmailJob{To: m.To, Subject: m.Subject, Text: m.Text, HTML: m.HTML}
}

// Message renders the job into a deliverable message.
func (j EmailJob) Message() (Message, error) {
	if j.To == "" {
		return Message{}, errors.New("email job has no recipient")
	}
	if j.Template == "" {
		return Message{To: j.To, Subject: j.Subject, Text: j.Text, HTML: j.HTML}, nil
	}
	subject, text, html, err := templates.Render(j.Template, j.Data)
	if err != nil {
		return Message{}, err
	}
	return Message{To: j.To, Subject: subject, Text: text, HTML: html}, nil
}
