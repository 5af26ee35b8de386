package config

import "strings"

// maskSecret keeps the first and last four characters of a secret.
func maskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) < 8 {
		return "***"
	}

	return secret[:4] + strings.Repeat("*", len(secret)-8) + secret[len(secret)-4:]
}

// MaskTelegramToken hides the secret half of a bot token and keeps the bot id
// visible for diagnostics.
func MaskTelegramToken(token string) string {
	if token == "" {
		return ""
	}

	botID, secret, ok := strings.Cut(token, ":")
	if !ok {
		return maskSecret(token)
	}
	return botID + ":" + maskSecret(secret)
}
