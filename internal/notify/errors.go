package notify

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelDisabled indicates the channel has no credentials configured.
	ErrChannelDisabled = errors.New("notification channel not configured")

	// ErrGatewayUnavailable indicates the gateway could not be reached.
	ErrGatewayUnavailable = errors.New("messaging gateway unavailable")

	// ErrTimeout indicates the send exceeded its deadline.
	ErrTimeout = errors.New("messaging gateway request timed out")

	// ErrInvalidAddress indicates a destination the channel cannot address.
	ErrInvalidAddress = errors.New("invalid destination address")
)

// Twilio error codes with a user-facing translation.
const (
	TwilioAuthFailed        = 20003
	TwilioInvalidNumber     = 21211
	TwilioRegionBlocked     = 21408
	TwilioSenderNotEnabled  = 63007
	TwilioOutsideSessionWin = 63016
)

// DescribeTwilioError maps a Twilio error code to a message a user can act
// on. Unknown codes fall back to the gateway's own message.
func DescribeTwilioError(code int, fallback string) string {
	switch code {
	case TwilioOutsideSessionWin:
		return "the recipient has not messaged this WhatsApp sender in the last 24 hours; only approved templates can be delivered"
	case TwilioInvalidNumber:
		return "the WhatsApp number is not a valid phone number"
	case TwilioRegionBlocked:
		return "sending to this country or region is not enabled for the account"
	case TwilioSenderNotEnabled:
		return "the configured sender is not enabled for WhatsApp"
	case TwilioAuthFailed:
		return "the messaging gateway rejected the account credentials"
	}
	if fallback != "" {
		return fallback
	}
	return fmt.Sprintf("delivery failed with gateway error %d", code)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrGatewayUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrChannelDisabled):
		return "DISABLED"
	case errors.Is(err, ErrInvalidAddress):
		return "INVALID_ADDRESS"
	default:
		return "UNKNOWN"
	}
}
