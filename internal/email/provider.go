package email

// Provider sends transactional mail. Implementations must be safe for
// concurrent use.
type Provider interface {
	Send(to, subject, body string) error
}

// NoopProvider is wired when SMTP is not configured.
type NoopProvider struct{}

func (NoopProvider) Send(to, subject, body string) error { return nil }
