package ports

// VerificationEmail is a queued request to deliver a verification link.
type VerificationEmail struct {
	To   string
	Link string
}

// Notifier enqueues a verification email for asynchronous, best-effort
// delivery. Enqueue never blocks the registration request on mail transport.
type Notifier interface {
	Enqueue(email VerificationEmail)
}
