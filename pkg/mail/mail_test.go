package mail

import (
	"context"
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawHeaders(t *testing.T) {
	m := To("a@example.com", "b@example.com").
		CC("c@example.com").
		BCC("hidden@example.com").
		Subject("Your order").
		Text("thanks")

	raw := string(m.Raw(SMTP{From: "orders@example.com", FromName: "LiftStore"}))
	assert.Contains(t, raw, "From: LiftStore <orders@example.com>\r\n")
	assert.Contains(t, raw, "To: a@example.com, b@example.com\r\n")
	assert.Contains(t, raw, "Cc: c@example.com\r\n")
	assert.Contains(t, raw, "Content-Type: text/plain")
	assert.NotContains(t, raw, "hidden@example.com")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\nthanks"))

	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com", "hidden@example.com"}, m.Recipients())
}

func TestTemplateBodyEscapes(t *testing.T) {
	tmpl := template.Must(template.New("t").Parse(`<p>Hi {{.}}</p>`))
	m := To("a@example.com").Template(tmpl, "<b>Sam</b>")
	raw := string(m.Raw(SMTP{}))
	assert.Contains(t, raw, "&lt;b&gt;Sam&lt;/b&gt;")
	assert.Contains(t, raw, "text/html")
}

func TestTemplateErrorSurfacesOnSend(t *testing.T) {
	tmpl := template.Must(template.New("t").Parse(`{{.Missing.Field}}`))
	m := To("a@example.com").Template(tmpl, struct{}{})
	err := LogSender{}.Send(context.Background(), m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render t")
}

func TestNewSender(t *testing.T) {
	assert.IsType(t, LogSender{}, NewSender(SMTP{}))
	assert.IsType(t, &SMTPSender{}, NewSender(SMTP{Host: "smtp.example.com", Port: "587"}))
	assert.ErrorIs(t, LogSender{}.Send(context.Background(), To()), ErrNoRecipients)
}
