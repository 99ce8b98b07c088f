package connectors

import "tcpagent/internal"

// MailConnector fetches raw messages from one mailbox provider.
type MailConnector interface {
	FetchInbox(label string, max int) ([]internal.FetchedMailMessage, error)
}
