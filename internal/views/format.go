package views

import (
	"strconv"
)

func formatFixed(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// formatNumber prints a backend-rounded value the way it was sent.
func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func optionalFixed(translator *Translator, value *float64, decimals int, unit string) string {
	if value == nil {
		return translator.Text(MsgNotAvailable)
	}
	return formatFixed(*value, decimals) + unit
}

func optionalNumber(translator *Translator, value *float64, unit string) string {
	if value == nil {
		return translator.Text(MsgNotAvailable)
	}
	return formatNumber(*value) + unit
}

func optionalText(translator *Translator, value *string) string {
	if value == nil || *value == "" {
		return translator.Text(MsgNotAvailable)
	}
	return *value
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
