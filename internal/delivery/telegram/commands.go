package telegram

import (
	"errors"
	"strings"
)

const HelpText = `<b>Command list:</b>

/register - Register to use the bot
/currencies - Show supported currencies
/crypto_price - Get price info (e.g. /crypto_price usd bitcoin)
/token_info - Get detailed info for a token
/set_alert token price - Set a price alert
/list_alerts - List your active alerts
/remove_alert alert_id - Remove a specific alert
`

const WelcomeText = "👋 Welcome!\nType <b>/help</b> to see available commands."

var ErrInvalidArguments = errors.New("invalid arguments")

// ParseCryptoPriceArgs expects "<currency> <crypto>"; either may be a comma
// separated list.
func ParseCryptoPriceArgs(args string) (currencies, cryptos string, err error) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		return "", "", ErrInvalidArguments
	}
	return parts[0], parts[1], nil
}

func ParseTokenID(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return "", ErrInvalidArguments
	}
	return strings.ToLower(parts[0]), nil
}

// ParseSetAlertArgs expects "<token name> <threshold>". The threshold is the
// last field so multi-word token names such as "Shiba Inu" work.
func ParseSetAlertArgs(args string) (tokenName, threshold string, err error) {
	parts := strings.Fields(args)
	if len(parts) < 2 {
		return "", "", ErrInvalidArguments
	}
	last := len(parts) - 1
	return strings.Join(parts[:last], " "), parts[last], nil
}

func ParseAlertID(args string) (string, error) {
	parts := strings.Fields(args)
	if len(parts) != 1 {
		return "", ErrInvalidArguments
	}
	return parts[0], nil
}
