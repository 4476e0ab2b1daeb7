package user

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/princebhanderi/ed-tech-platform/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdComplexityText = "password must contain at least 1 uppercase character, 1 lowercase character, 1 digit and 1 special character"
	specialRegex      = regexp.MustCompile("[^A-Za-z0-9]")

	pwdMaxSim      = .7
	pwdAttrSimText = "password cannot be similar to user attributes"
)

func passwordErr(text string) error {
	return core.NewInvalidArgumentError("invalid password", map[string]string{"password": text})
}

// ValidatePassword applies the password policy to pwd:
// - minLen: 8
// - no whitespace
// - no all numeric
// - complexity: 1 upper, 1 lower, 1 digit, 1 special
// - no user attrs similarity
func ValidatePassword(pwd string, attrs ...string) error {
	var (
		digitCount                             int
		hasUpper, hasLower, hasDig, hasSpecial bool
	)

	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		return passwordErr(pwdMinLenText)
	}
	for _, char := range pwd {
		if unicode.IsSpace(char) {
			return passwordErr(pwdNoSpaceText)
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
		if !hasUpper && unicode.IsUpper(char) {
			hasUpper = true
		}
		if !hasLower && unicode.IsLower(char) {
			hasLower = true
		}
	}

	if digitCount == pwdLen {
		return passwordErr(pwdNotAllNumText)
	}

	hasDig = digitCount > 0
	hasSpecial = specialRegex.MatchString(pwd)
	if !(hasUpper && hasLower && hasDig && hasSpecial) {
		return passwordErr(pwdComplexityText)
	}

	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(strings.Split(lpwd, ""), strings.Split(strings.ToLower(attr), "")).QuickRatio()
		if ratio >= pwdMaxSim {
			return passwordErr(pwdAttrSimText)
		}
	}
	return nil
}
