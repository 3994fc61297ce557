package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orcafacil/api/internal/config"
)

func TestLogMailerZeroValueRecordsSends(t *testing.T) {
	t.Parallel()

	mailer := &LogMailer{}

	err := mailer.Send(context.Background(), Message{
		To:      "maria@example.com",
		Subject: "Confirme sua conta",
		HTML:    "<p>bem-vinda</p>",
	})
	require.NoError(t, err)
	require.Len(t, mailer.Sent, 1)
	assert.Equal(t, "maria@example.com", mailer.Sent[0].To)
	assert.Equal(t, "Confirme sua conta", mailer.Sent[0].Subject)
}

func TestNewSelectsImplementationFromConfig(t *testing.T) {
	t.Parallel()

	logger := zap.NewNop()

	assert.IsType(t, &LogMailer{}, New(config.MailConfig{}, logger))
	assert.IsType(t, &SMTPMailer{}, New(config.MailConfig{Host: "smtp.example.com"}, logger))
}
