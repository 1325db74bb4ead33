package email_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zulqarnainhdr514/storage-management/internal/email"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	valid := email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Hello",
		BodyHTML: "<p>Hi</p>",
	}
	require.NoError(t, valid.Validate())

	noRecipient := valid
	noRecipient.SendTo = "not-an-email"
	require.Error(t, noRecipient.Validate())

	noSubject := valid
	noSubject.Subject = "  "
	require.Error(t, noSubject.Validate())

	noBody := valid
	noBody.BodyHTML = ""
	require.Error(t, noBody.Validate())
}

func TestNewPostmarkClient_Validation(t *testing.T) {
	t.Parallel()

	base := email.Config{
		PostmarkServerToken:  "server-token",
		PostmarkAccountToken: "account-token",
		SenderEmail:          "no-reply@example.com",
		SupportEmail:         "support@example.com",
	}

	_, err := email.NewPostmarkClient(base)
	require.NoError(t, err)

	missingServer := base
	missingServer.PostmarkServerToken = ""
	_, err = email.NewPostmarkClient(missingServer)
	require.ErrorIs(t, err, email.ErrInvalidConfig)

	badSender := base
	badSender.SenderEmail = "nope"
	_, err = email.NewPostmarkClient(badSender)
	require.ErrorIs(t, err, email.ErrInvalidConfig)
}

func TestDevSender_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	sender := email.NewDevSender(dir)

	err := sender.SendEmail(context.Background(), email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Shared: Q3 Report",
		BodyHTML: "<p>file link</p>",
		Tag:      "file-shared",
	})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var sawHTML, sawJSON bool
	for _, entry := range entries {
		switch filepath.Ext(entry.Name()) {
		case ".html":
			sawHTML = true
			content, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			require.NoError(t, err)
			require.Contains(t, string(content), "file link")
		case ".json":
			sawJSON = true
		}
	}
	require.True(t, sawHTML)
	require.True(t, sawJSON)
}

func TestShareNotifier_NotifyShared(t *testing.T) {
	t.Parallel()

	t.Run("sends one email per recipient", func(t *testing.T) {
		t.Parallel()

		sender := new(mockSender)
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return strings.Contains(p.Subject, "Ana") &&
				strings.Contains(p.BodyHTML, "holiday.jpg") &&
				strings.Contains(p.BodyHTML, "https://cdn.example.com/f/1") &&
				p.Tag == "file-shared"
		})).Return(nil).Twice()

		n := email.NewShareNotifier(sender, "Storage Management")
		err := n.NotifyShared(context.Background(),
			[]string{"a@example.com", "b@example.com"},
			"Ana", "holiday.jpg", "https://cdn.example.com/f/1")
		require.NoError(t, err)
		sender.AssertExpectations(t)
	})

	t.Run("one failed recipient does not block the rest", func(t *testing.T) {
		t.Parallel()

		sender := new(mockSender)
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "bad@example.com"
		})).Return(errors.New("bounced"))
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "good@example.com"
		})).Return(nil)

		n := email.NewShareNotifier(sender, "")
		err := n.NotifyShared(context.Background(),
			[]string{"bad@example.com", "good@example.com"},
			"Ana", "x.pdf", "https://cdn.example.com/f/2")
		require.Error(t, err)
		sender.AssertNumberOfCalls(t, "SendEmail", 2)
	})
}
