// Package notify delivers reminder messages through outbound chat channels.
package notify

import "context"

// Message is one outbound delivery.
type Message struct {
	To        string
	Body      string
	TitleHint string
	ForceText bool
}

// Receipt is the gateway's verdict. A rejected send is not a Go error.
type Receipt struct {
	Accepted   bool
	DeliveryID string
	ErrorCode  string
	Error      string
}

// Channel submits messages to one gateway. Errors are reserved for
// transport failures; gateway rejections come back as a Receipt.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) (Receipt, error)
}
