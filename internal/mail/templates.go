package mail

import (
	"bytes"         // Template output
	"fmt"           // Error wrapping
	"html/template" // Escaped HTML rendering
	"net/url"       // Query escaping
)

// ResetSubject is the subject line of password reset mail
const ResetSubject = "Your Password Reset Token"

var resetTemplate = template.Must(template.New("reset").Parse(`<div style="border: 1px solid black; padding: 20px; font-family: sans-serif; line-height: 2; font-size: 20px;">
  <h2>Hello There!</h2>
  <p>Your Password Reset Token is here!</p>
  <p><a href="{{.Link}}">Click Here to Reset</a></p>
  <p>The link stops working in one hour.</p>
</div>`))

// ResetLink is the front-end page that consumes a reset token
func ResetLink(frontendURL, token string) string {
	return frontendURL + "/reset?resetToken=" + url.QueryEscape(token)
}

// ResetEmail renders the password reset message for to
func ResetEmail(to, frontendURL, token string) (Message, error) {
	link := ResetLink(frontendURL, token)
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, struct{ Link string }{Link: link}); err != nil {
		return Message{}, fmt.Errorf("failed to render reset email: %w", err)
	}
	return Message{
		To:       to,
		Subject:  ResetSubject,
		HTMLBody: buf.String(),
		TextBody: "Your Password Reset Token is here!\n\nReset your password: " + link + "\n\nThe link stops working in one hour.\n",
	}, nil
}
