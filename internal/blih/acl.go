package blih

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// ACLLetters lists every permission letter in canonical order: read, write, admin.
	ACLLetters = "rwa"

	aclFieldConstant           = "acl"
	aclInvalidMessageConstant  = "must only contain the letters r, w and a"
	aclPatternExpressionString = `^[rwa]*$`
)

var aclPattern = regexp.MustCompile(aclPatternExpressionString)

// NormalizeACL validates permission letters and returns them in rwa order without duplicates.
// An empty ACL is valid and revokes every right.
func NormalizeACL(acl string) (string, error) {
	trimmedACL := strings.TrimSpace(acl)
	validationError := validation.Validate(trimmedACL, validation.Match(aclPattern).Error(aclInvalidMessageConstant))
	if validationError != nil {
		return "", InvalidInputError{FieldName: aclFieldConstant, Message: validationError.Error()}
	}

	var builder strings.Builder
	for _, letter := range ACLLetters {
		if strings.ContainsRune(trimmedACL, letter) {
			builder.WriteRune(letter)
		}
	}
	return builder.String(), nil
}

// ToggleACLLetter flips a single permission letter and returns the normalized ACL.
func ToggleACLLetter(acl string, letter rune) (string, error) {
	normalizedACL, normalizationError := NormalizeACL(acl)
	if normalizationError != nil {
		return "", normalizationError
	}
	if strings.ContainsRune(normalizedACL, letter) {
		return strings.ReplaceAll(normalizedACL, string(letter), ""), nil
	}
	return NormalizeACL(normalizedACL + string(letter))
}
