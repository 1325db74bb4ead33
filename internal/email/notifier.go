package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
)

var shareTemplate = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: sans-serif; color: #333;">
  <h2>{{.SharerName}} shared a file with you</h2>
  <p><strong>{{.FileName}}</strong> is now available in your shared files.</p>
  <p><a href="{{.FileURL}}" style="color: #FA7275;">Open file</a></p>
  <p style="color: #999; font-size: 12px;">Sent by {{.AppName}}. If you were not expecting this, you can ignore this email.</p>
</body>
</html>`))

// ShareNotifier composes and sends file-share notification emails.
type ShareNotifier struct {
	sender  Sender
	appName string
}

// NewShareNotifier creates a notifier that delivers through the given
// sender.
func NewShareNotifier(sender Sender, appName string) *ShareNotifier {
	if appName == "" {
		appName = "Storage Management"
	}
	return &ShareNotifier{sender: sender, appName: appName}
}

// NotifyShared emails each recipient a link to the shared file. Failures
// are collected so one bad address does not hide delivery to the rest.
func (n *ShareNotifier) NotifyShared(ctx context.Context, recipients []string, sharerName, fileName, fileURL string) error {
	if sharerName == "" {
		sharerName = "Someone"
	}

	var buf bytes.Buffer
	err := shareTemplate.Execute(&buf, map[string]string{
		"SharerName": sharerName,
		"FileName":   fileName,
		"FileURL":    fileURL,
		"AppName":    n.appName,
	})
	if err != nil {
		return fmt.Errorf("render share notification: %w", err)
	}

	var errs []error
	for _, recipient := range recipients {
		sendErr := n.sender.SendEmail(ctx, SendEmailParams{
			SendTo:   recipient,
			Subject:  fmt.Sprintf("%s shared %q with you", sharerName, fileName),
			BodyHTML: buf.String(),
			Tag:      "file-shared",
		})
		if sendErr != nil {
			errs = append(errs, fmt.Errorf("send to %s: %w", recipient, sendErr))
		}
	}
	return errors.Join(errs...)
}
