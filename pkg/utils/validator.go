package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Validators for Vietnamese household-business registration data. Error
// messages are user-facing and returned verbatim by the API.

var (
	// Mobile numbers: 10 digits starting 03, 05, 07, 08 or 09.
	phoneRegex = regexp.MustCompile(`^(0[35789])[0-9]{8}$`)
	// Tax ID: 10 digits, optionally a 3-digit branch suffix.
	taxIDRegex = regexp.MustCompile(`^[0-9]{10}(-[0-9]{3})?$`)
	// VSIC industry codes are 4 or 5 digits.
	vsicRegex = regexp.MustCompile(`^[0-9]{4,5}$`)
	pinRegex  = regexp.MustCompile(`^\d{6}$`)
)

var weakPins = map[string]bool{
	"000000": true, "111111": true, "222222": true, "333333": true,
	"444444": true, "555555": true, "666666": true, "777777": true,
	"888888": true, "999999": true, "123456": true, "654321": true,
}

// ValidatePhoneNumber checks a Vietnamese mobile number. Spaces and dashes
// are tolerated and stripped; the cleaned number is returned.
func ValidatePhoneNumber(phone string) (string, error) {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(phone)
	if cleaned == "" {
		return "", fmt.Errorf("vui lòng nhập số điện thoại")
	}
	if !phoneRegex.MatchString(cleaned) {
		return "", fmt.Errorf("số điện thoại không hợp lệ (phải có 10 số, bắt đầu bằng 03, 05, 07, 08, hoặc 09)")
	}
	return cleaned, nil
}

// ValidatePin checks a 6-digit PIN and rejects trivially guessable values.
func ValidatePin(pin string) error {
	if pin == "" {
		return fmt.Errorf("vui lòng nhập mã PIN")
	}
	if !pinRegex.MatchString(pin) {
		return fmt.Errorf("mã PIN phải có đúng 6 chữ số")
	}
	if weakPins[pin] {
		return fmt.Errorf("mã PIN quá đơn giản, vui lòng chọn mã khác")
	}
	return nil
}

// ValidateTaxID checks a Vietnamese tax / business-registration number.
func ValidateTaxID(taxID string) error {
	cleaned := strings.ReplaceAll(taxID, " ", "")
	cleaned = strings.NewReplacer("–", "-", "—", "-").Replace(cleaned)
	if cleaned == "" {
		return fmt.Errorf("vui lòng nhập mã số thuế")
	}
	if !taxIDRegex.MatchString(cleaned) {
		return fmt.Errorf("mã số thuế không hợp lệ (10 số hoặc 10 số-3 số chi nhánh)")
	}
	return nil
}

// ValidateBusinessName checks the registered business name.
func ValidateBusinessName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("vui lòng nhập tên hộ kinh doanh")
	}
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return fmt.Errorf("tên hộ kinh doanh phải có ít nhất 2 ký tự")
	}
	if len(runes) > 200 {
		return fmt.Errorf("tên hộ kinh doanh không được quá 200 ký tự")
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) && !unicode.IsSpace(r) &&
			!strings.ContainsRune(".,&()-", r) {
			return fmt.Errorf("tên hộ kinh doanh chứa ký tự không hợp lệ")
		}
	}
	return nil
}

// ValidateAddress checks an optional address.
func ValidateAddress(address string) error {
	if len([]rune(strings.TrimSpace(address))) > 500 {
		return fmt.Errorf("địa chỉ không được quá 500 ký tự")
	}
	return nil
}

// ValidateIndustryCode checks an optional VSIC industry code.
func ValidateIndustryCode(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil
	}
	if !vsicRegex.MatchString(trimmed) {
		return fmt.Errorf("mã ngành phải có 4-5 chữ số (theo VSIC)")
	}
	return nil
}

// ValidateIndustry checks the optional free-text trade description.
func ValidateIndustry(industry string) error {
	if len([]rune(strings.TrimSpace(industry))) > 200 {
		return fmt.Errorf("ngành nghề không được quá 200 ký tự")
	}
	return nil
}

// ValidateOwnerName checks the optional owner name.
func ValidateOwnerName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	runes := []rune(trimmed)
	if len(runes) < 2 {
		return fmt.Errorf("họ tên phải có ít nhất 2 ký tự")
	}
	if len(runes) > 100 {
		return fmt.Errorf("họ tên không được quá 100 ký tự")
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsSpace(r) && r != '.' {
			return fmt.Errorf("họ tên chỉ được chứa chữ cái và dấu cách")
		}
	}
	return nil
}

var (
	htmlTagRegex   = regexp.MustCompile(`<[^>]*>`)
	jsSchemeRegex  = regexp.MustCompile(`(?i)javascript:`)
	eventAttrRegex = regexp.MustCompile(`(?i)on\w+=`)
)

// SanitizeInput strips markup-like fragments from free text while keeping
// Vietnamese characters intact.
func SanitizeInput(input string) string {
	s := htmlTagRegex.ReplaceAllString(input, "")
	s = jsSchemeRegex.ReplaceAllString(s, "")
	s = eventAttrRegex.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
