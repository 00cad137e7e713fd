package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/NasaVasa/coinwatch/internal/domain"
	"github.com/NasaVasa/coinwatch/internal/usecase"
	"github.com/shopspring/decimal"
)

const maxMessageLen = 3800

func formatCurrencies(currencies []string) string {
	header := "<b>Supported currencies:</b>\n\n"
	var builder strings.Builder
	builder.WriteString(header)
	for i, currency := range currencies {
		line := "• " + html.EscapeString(currency) + "\n"
		if builder.Len()+len(line) > maxMessageLen {
			builder.WriteString(fmt.Sprintf("...and %d more", len(currencies)-i))
			break
		}
		builder.WriteString(line)
	}
	if builder.Len() == len(header) {
		builder.WriteString("(none)")
	}
	return builder.String()
}

func formatQuotes(quotes []usecase.PriceQuote) string {
	var builder strings.Builder
	for _, quote := range quotes {
		builder.WriteString(fmt.Sprintf(
			"<b>%s</b> ➡️ <b>%s</b> %s\n",
			html.EscapeString(quote.TokenID),
			quote.Price.String(),
			html.EscapeString(strings.ToUpper(quote.Currency)),
		))
	}
	return builder.String()
}

func formatTokenInfo(info *usecase.TokenInfo) string {
	details := info.Details
	holders := "N/A"
	if info.Holders != nil {
		holders = groupThousands(decimal.NewFromInt(*info.Holders))
	}

	return fmt.Sprintf(
		"<b>%s (%s)</b>\n\nPrice: $%s\nMarket Cap: $%s\nVolume (24h): $%s\nChange (24h): %s\nChange (7d): %s\nHolders: %s\n",
		html.EscapeString(details.Name),
		html.EscapeString(strings.ToUpper(details.Symbol)),
		optional(details.PriceUSD, func(d decimal.Decimal) string { return d.String() }),
		optional(details.MarketCapUSD, groupThousands),
		optional(details.VolumeUSD, groupThousands),
		optional(details.PriceChangePercentage24h, percent),
		optional(details.PriceChangePercentage7d, percent),
		holders,
	)
}

func formatAlerts(alerts []domain.Alert) string {
	var builder strings.Builder
	builder.WriteString("<b>Your Alerts:</b>\n\n")
	for i, alert := range alerts {
		builder.WriteString(fmt.Sprintf(
			"%d. %s → $%s (ID: <code>%s</code>)\n",
			i+1,
			html.EscapeString(alert.TokenID),
			alert.Threshold.String(),
			html.EscapeString(alert.ID),
		))
	}
	return builder.String()
}

func optional(value *decimal.Decimal, format func(decimal.Decimal) string) string {
	if value == nil {
		return "N/A"
	}
	return format(*value)
}

func percent(value decimal.Decimal) string {
	return value.StringFixed(2) + "%"
}

// groupThousands renders a value rounded to an integer with comma separators.
func groupThousands(value decimal.Decimal) string {
	digits := value.Round(0).Abs().String()
	var builder strings.Builder
	if value.Round(0).IsNegative() {
		builder.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	builder.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		builder.WriteByte(',')
		builder.WriteString(digits[i : i+3])
	}
	return builder.String()
}
