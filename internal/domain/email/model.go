package email

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Subjects of the account notification emails.
const (
	SubjectVerify       = "Verify Your FitPro Manager Account"
	SubjectConfirmReset = "Confirm Password Reset"
)

// Kind names the account flow a message belongs to.
type Kind string

const (
	KindVerification  Kind = "verification"
	KindPasswordReset Kind = "password_reset"
)

// Domain errors
var (
	ErrEmptyRecipient = errors.New("email recipient is required")
	ErrEmptySubject   = errors.New("email subject is required")
	ErrEmptyBody      = errors.New("email body is required")
)

// Message is a composed notification. Body is markdown; adapters render it.
type Message struct {
	Kind    Kind
	To      string
	Subject string
	Body    string
}

// Validate checks that the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return ErrEmptyRecipient
	}
	if m.Subject == "" {
		return ErrEmptySubject
	}
	if m.Body == "" {
		return ErrEmptyBody
	}
	return nil
}

// VerificationLink is the URL that consumes a verification token.
func VerificationLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/auth/verify?token=" + url.QueryEscape(token)
}

// ResetLink is the URL that confirms a pending password reset.
func ResetLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/api/auth/confirm-reset/" + url.PathEscape(token)
}

// NewVerification composes the signup verification email.
// PRE: to and token are non-empty
// POST: Body carries a single verification link
func NewVerification(to, username, baseURL, token string) Message {
	body := fmt.Sprintf(`Hi %s,

Thanks for signing up for FitPro Manager. Please verify your email address to activate your account.

[Verify Email](%s)

If you did not create this account you can ignore this email.
`, username, VerificationLink(baseURL, token))
	return Message{Kind: KindVerification, To: to, Subject: SubjectVerify, Body: body}
}

// NewResetConfirmation composes the password reset confirmation email.
// PRE: to and token are non-empty
// POST: Body carries a single confirmation link
func NewResetConfirmation(to, username, baseURL, token string) Message {
	body := fmt.Sprintf(`Hi %s,

A password change was requested for your FitPro Manager account. Your current password keeps working until you confirm.

[Confirm Password Reset](%s)

This link expires in one hour. If you did not request this, ignore this email.
`, username, ResetLink(baseURL, token))
	return Message{Kind: KindPasswordReset, To: to, Subject: SubjectConfirmReset, Body: body}
}
