package blih

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"unicode/utf16"
)

const (
	canonicalIndentConstant         = "    "
	canonicalKeySeparatorConstant   = ": "
	canonicalItemSeparatorConstant  = ","
	canonicalNullLiteralConstant    = "null"
	canonicalTrueLiteralConstant    = "true"
	canonicalFalseLiteralConstant   = "false"
	canonicalEmptyObjectConstant    = "{}"
	canonicalEmptyArrayConstant     = "[]"
	canonicalUnicodeEscapeTemplate  = `\u%04x`
	unsupportedCanonicalTypeMessage = "unsupported canonical value type %T"
)

// CanonicalJSON renders value the way the BLIH server re-serializes signed payloads:
// object keys sorted, four-space indentation, "," between items, ": " between key and value,
// and every character outside printable ASCII escaped as \uXXXX.
func CanonicalJSON(value any) ([]byte, error) {
	normalizedValue, normalizationError := normalizePayload(value)
	if normalizationError != nil {
		return nil, normalizationError
	}

	var buffer bytes.Buffer
	if writeError := writeCanonicalValue(&buffer, normalizedValue, 0); writeError != nil {
		return nil, writeError
	}
	return buffer.Bytes(), nil
}

// normalizePayload converts arbitrary Go values into the generic JSON tree
// (map[string]any, []any, string, bool, json.Number, nil).
func normalizePayload(value any) (any, error) {
	encodedValue, encodingError := json.Marshal(value)
	if encodingError != nil {
		return nil, encodingError
	}

	decoder := json.NewDecoder(bytes.NewReader(encodedValue))
	decoder.UseNumber()

	var normalizedValue any
	if decodingError := decoder.Decode(&normalizedValue); decodingError != nil {
		return nil, decodingError
	}
	return normalizedValue, nil
}

// isTruthy mirrors the truthiness rule applied by the server before it signs a payload.
func isTruthy(normalizedValue any) bool {
	switch typedValue := normalizedValue.(type) {
	case nil:
		return false
	case bool:
		return typedValue
	case json.Number:
		floatValue, parseError := strconv.ParseFloat(typedValue.String(), 64)
		if parseError != nil {
			return len(typedValue.String()) > 0
		}
		return floatValue != 0
	case string:
		return len(typedValue) > 0
	case []any:
		return len(typedValue) > 0
	case map[string]any:
		return len(typedValue) > 0
	default:
		return true
	}
}

func writeCanonicalValue(buffer *bytes.Buffer, normalizedValue any, depth int) error {
	switch typedValue := normalizedValue.(type) {
	case nil:
		buffer.WriteString(canonicalNullLiteralConstant)
	case bool:
		if typedValue {
			buffer.WriteString(canonicalTrueLiteralConstant)
		} else {
			buffer.WriteString(canonicalFalseLiteralConstant)
		}
	case json.Number:
		buffer.WriteString(typedValue.String())
	case string:
		writeCanonicalString(buffer, typedValue)
	case []any:
		return writeCanonicalArray(buffer, typedValue, depth)
	case map[string]any:
		return writeCanonicalObject(buffer, typedValue, depth)
	default:
		return fmt.Errorf(unsupportedCanonicalTypeMessage, normalizedValue)
	}
	return nil
}

func writeCanonicalArray(buffer *bytes.Buffer, items []any, depth int) error {
	if len(items) == 0 {
		buffer.WriteString(canonicalEmptyArrayConstant)
		return nil
	}

	buffer.WriteByte('[')
	for itemIndex, item := range items {
		if itemIndex > 0 {
			buffer.WriteString(canonicalItemSeparatorConstant)
		}
		writeCanonicalLineBreak(buffer, depth+1)
		if writeError := writeCanonicalValue(buffer, item, depth+1); writeError != nil {
			return writeError
		}
	}
	writeCanonicalLineBreak(buffer, depth)
	buffer.WriteByte(']')
	return nil
}

func writeCanonicalObject(buffer *bytes.Buffer, object map[string]any, depth int) error {
	if len(object) == 0 {
		buffer.WriteString(canonicalEmptyObjectConstant)
		return nil
	}

	keys := make([]string, 0, len(object))
	for key := range object {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buffer.WriteByte('{')
	for keyIndex, key := range keys {
		if keyIndex > 0 {
			buffer.WriteString(canonicalItemSeparatorConstant)
		}
		writeCanonicalLineBreak(buffer, depth+1)
		writeCanonicalString(buffer, key)
		buffer.WriteString(canonicalKeySeparatorConstant)
		if writeError := writeCanonicalValue(buffer, object[key], depth+1); writeError != nil {
			return writeError
		}
	}
	writeCanonicalLineBreak(buffer, depth)
	buffer.WriteByte('}')
	return nil
}

func writeCanonicalLineBreak(buffer *bytes.Buffer, depth int) {
	buffer.WriteByte('\n')
	for indentLevel := 0; indentLevel < depth; indentLevel++ {
		buffer.WriteString(canonicalIndentConstant)
	}
}

func writeCanonicalString(buffer *bytes.Buffer, value string) {
	buffer.WriteByte('"')
	for _, character := range value {
		switch {
		case character == '"':
			buffer.WriteString(`\"`)
		case character == '\\':
			buffer.WriteString(`\\`)
		case character == '\n':
			buffer.WriteString(`\n`)
		case character == '\r':
			buffer.WriteString(`\r`)
		case character == '\t':
			buffer.WriteString(`\t`)
		case character == '\b':
			buffer.WriteString(`\b`)
		case character == '\f':
			buffer.WriteString(`\f`)
		case character >= 0x20 && character <= 0x7e:
			buffer.WriteRune(character)
		case character > 0xffff:
			highSurrogate, lowSurrogate := utf16.EncodeRune(character)
			fmt.Fprintf(buffer, canonicalUnicodeEscapeTemplate, highSurrogate)
			fmt.Fprintf(buffer, canonicalUnicodeEscapeTemplate, lowSurrogate)
		default:
			fmt.Fprintf(buffer, canonicalUnicodeEscapeTemplate, character)
		}
	}
	buffer.WriteByte('"')
}
