package testkit

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/shashiranjanraj/liftstore/pkg/mail"
)

// MailMocker is a mail.Sender backed by testify's mock. With no
// expectations set every Send succeeds; once any are set, each Send must
// match one, keyed on the first recipient.
//
//	m := testkit.NewMailMocker()
//	m.Mock().On("Send", "buyer@example.com").Return(errors.New("smtp down")).Once()
type MailMocker struct {
	m    mock.Mock
	mu   sync.Mutex
	sent []*mail.Message
}

func NewMailMocker() *MailMocker { return &MailMocker{} }

func (mm *MailMocker) Send(_ context.Context, msg *mail.Message) error {
	mm.mu.Lock()
	mm.sent = append(mm.sent, msg)
	mm.mu.Unlock()

	if len(mm.m.ExpectedCalls) == 0 {
		return nil
	}
	var to string
	if r := msg.Recipients(); len(r) > 0 {
		to = r[0]
	}
	return mm.m.Called(to).Error(0)
}

// Sent returns every message handed to Send so far.
func (mm *MailMocker) Sent() []*mail.Message {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	return append([]*mail.Message(nil), mm.sent...)
}

func (mm *MailMocker) Mock() *mock.Mock { return &mm.m }

// Reset forgets recorded messages and expectations.
func (mm *MailMocker) Reset() {
	mm.mu.Lock()
	mm.sent = nil
	mm.mu.Unlock()
	mm.m.ExpectedCalls = nil
	mm.m.Calls = nil
}
