package blih

import (
	"strings"
)

const (
	upperHexDigitsConstant   = "0123456789ABCDEF"
	percentSignConstant      = '%'
	quoteSafeSymbolsConstant = "_.-~/"
)

// QuoteSSHKey percent-encodes key text the way the BLIH server decodes it:
// ASCII letters, digits and "_.-~/" pass through, every other byte becomes %XX.
func QuoteSSHKey(keyText string) string {
	var builder strings.Builder
	builder.Grow(len(keyText))
	for index := 0; index < len(keyText); index++ {
		character := keyText[index]
		if isQuoteSafe(character) {
			builder.WriteByte(character)
			continue
		}
		builder.WriteByte(percentSignConstant)
		builder.WriteByte(upperHexDigitsConstant[character>>4])
		builder.WriteByte(upperHexDigitsConstant[character&0x0f])
	}
	return builder.String()
}

func isQuoteSafe(character byte) bool {
	switch {
	case character >= 'a' && character <= 'z':
		return true
	case character >= 'A' && character <= 'Z':
		return true
	case character >= '0' && character <= '9':
		return true
	default:
		return strings.IndexByte(quoteSafeSymbolsConstant, character) >= 0
	}
}
