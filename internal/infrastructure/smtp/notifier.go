package smtp

import "fmt"

// Notifier formats and delivers the account emails (verification links,
// password reset links, change confirmations). Callers treat Send as
// fire-and-forget: a delivery failure is theirs to log, never to propagate.
type Notifier interface {
	SendVerification(to, token string) error
	SendPasswordReset(to, token string) error
	SendPasswordChanged(to string) error
}

type notifier struct {
	mailer  Mailer
	baseURL string
}

func NewNotifier(mailer Mailer, baseURL string) Notifier {
	return &notifier{mailer: mailer, baseURL: baseURL}
}

func (n *notifier) SendVerification(to, token string) error {
	body := fmt.Sprintf(
		"Welcome! Confirm your email address by opening:\r\n\r\n%s/api/auth/confirmed_email/%s",
		n.baseURL, token)
	return n.mailer.SendEmail(to, "Email address confirmation", body)
}

func (n *notifier) SendPasswordReset(to, token string) error {
	body := fmt.Sprintf(
		"A password reset was requested for your account. Open:\r\n\r\n%s/api/users/reset_password/%s\r\n\r\nIf this wasn't you, ignore this message.",
		n.baseURL, token)
	return n.mailer.SendEmail(to, "Password reset", body)
}

func (n *notifier) SendPasswordChanged(to string) error {
	return n.mailer.SendEmail(to, "Password changed",
		"Your password was changed successfully. If this wasn't you, contact support immediately.")
}
