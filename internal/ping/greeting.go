package ping

import "strings"

const (
	greetingWordSeparatorConstant = " "
	greetingNameTerminatorRune    = "!"
	greetingNameFieldIndex        = 1
)

// ParseGitGreeting extracts the account name from a git host banner such as "Hello bob! You've successfully authenticated".
func ParseGitGreeting(standardOutput string) (string, bool) {
	fields := strings.Split(strings.TrimSpace(standardOutput), greetingWordSeparatorConstant)
	if len(fields) <= greetingNameFieldIndex {
		return "", false
	}
	accountName, _, _ := strings.Cut(fields[greetingNameFieldIndex], greetingNameTerminatorRune)
	if len(accountName) == 0 {
		return "", false
	}
	return accountName, true
}
