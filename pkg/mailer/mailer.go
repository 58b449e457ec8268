package mailer

import (
	"context"
	"errors"
)

// ErrDisabled is returned when outbound mail is switched off.
var ErrDisabled = errors.New("mail sending is disabled")

// Message is a rendered email.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers a message or reports why it could not.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Disabled fails every send so callers take their failure path.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) error { return ErrDisabled }

// Publisher is the queue side used by Queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Queue hands messages to the email worker through a broker.
type Queue struct {
	Pub Publisher
}

func NewQueue(pub Publisher) *Queue { return &Queue{Pub: pub} }

func (q *Queue) Send(ctx context.Context, msg Message) error {
	return q.Pub.PublishJSON(ctx, JobFromMessage(msg))
}
