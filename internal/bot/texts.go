package bot

import (
	"fmt"

	"github.com/alanyoungcy/roarwatch/internal/domain"
	"github.com/alanyoungcy/roarwatch/internal/render"
)

// Reply texts use Telegram Markdown, matching the parse mode the transport
// sends with.

func welcomeText(symbol, address string) string {
	return fmt.Sprintf(
		"🐱 *Welcome to the %s Monitor Bot!*\n\n"+
			"I monitor the %s token liquidity pool 24/7 and provide custom notifications.\n\n"+
			"*Commands:*\n"+
			"• `/roar_status` - Get current token status with custom image\n"+
			"• `/subscribe` - Enable automatic buy notifications\n"+
			"• `/unsubscribe` - Disable notifications\n"+
			"• `/help` - Show detailed help\n\n"+
			"*Monitoring:* `%s`\n\n"+
			"The bot automatically tracks all buys and displays the remaining tokens on the notification card.",
		symbol, symbol, address,
	)
}

func helpText(symbol, address string) string {
	return fmt.Sprintf(
		"🔧 *Bot Help*\n\n"+
			"*Monitoring Commands:*\n"+
			"• `/start_roar` - Start pool monitoring\n"+
			"• `/stop_roar` - Stop monitoring\n"+
			"• `/roar_status` - Get current pool status\n"+
			"• `/subscribe` - Subscribe to buy notifications\n"+
			"• `/unsubscribe` - Unsubscribe from notifications\n\n"+
			"*Features:*\n"+
			"• 24/7 real-time %s buy detection\n"+
			"• Custom notification images\n"+
			"• Remaining token count display\n"+
			"• Authentic DexScreener data integration\n\n"+
			"*Monitoring Contract:*\n`%s`",
		symbol, address,
	)
}

func monitoringStartedText(symbol, address string) string {
	return fmt.Sprintf(
		"✅ *%s Monitoring Started*\n\n"+
			"🐱 Token: `%s...`\n"+
			"📊 Using DexScreener API for real-time data\n"+
			"🔔 Use `/subscribe` for buy notifications",
		symbol, shortAddress(address),
	)
}

func monitoringAlreadyActiveText() string {
	return "✅ Monitoring is already running. Use `/roar_status` for the current pool state."
}

func monitoringStoppedText(symbol string) string {
	return fmt.Sprintf("🛑 *%s monitoring stopped*", symbol)
}

func monitoringNotActiveText() string {
	return "❌ No monitoring is currently active"
}

func statusPendingText() string {
	return "⏳ *Monitoring starting up...*"
}

func statusUnavailableText() string {
	return "❌ No monitoring is active. Use `/start_roar` to begin."
}

func statusText(symbol string, remaining float64, st domain.MonitorStatus, subscribers int) string {
	word := "stopped"
	if st.Running {
		word = "active"
	}
	if st.Stale {
		word += " (stale data)"
	}
	return fmt.Sprintf(
		"📊 *Current %s Pool Status*\n\n"+
			"🚀 %s Tokens Left: *%s*\n"+
			"📈 Status: %s\n"+
			"🔔 Subscribers: %d",
		symbol, symbol, render.FormatAmount(remaining), word, subscribers,
	)
}

func statusCaption(symbol string, remaining float64) string {
	return fmt.Sprintf("%s Pool Status: %s tokens remaining", symbol, render.FormatAmount(remaining))
}

func subscribedText(symbol string) string {
	return fmt.Sprintf(
		"🔔 *Subscribed to %s buy notifications!*\n\n"+
			"You'll receive custom images showing the remaining %s tokens when new buys happen.",
		symbol, symbol,
	)
}

func unsubscribedText() string {
	return "🔕 *Unsubscribed from notifications*"
}

func unknownText() string {
	return "Unknown command. Use `/help` to see what I can do."
}

func shortAddress(address string) string {
	if len(address) <= 8 {
		return address
	}
	return address[:8]
}
