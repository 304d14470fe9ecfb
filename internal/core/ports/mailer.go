package ports

import "context"

// Mailer delivers the account-verification email. Delivery is best-effort:
// callers never fail a request on a mail error.
type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
}
