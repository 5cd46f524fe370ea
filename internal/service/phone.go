package service

import "strings"

// defaultCountryCode is applied when a bare 10-digit local number arrives.
const defaultCountryCode = "52"

// NormalizePhone reduces a raw phone to country-code-prefixed digits.
// A 10-digit local number gets the country code prepended; a "1" mobile
// marker between the country code and the local number is dropped.
// Returns "" when no usable number remains.
func NormalizePhone(raw, countryCode string) string {
	if countryCode == "" {
		countryCode = defaultCountryCode
	}
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	switch {
	case number == "":
		return ""
	case len(number) == 10:
		return countryCode + number
	case len(number) == 13 && strings.HasPrefix(number, countryCode+"1"):
		// Legacy mobile format cc+1+10 digits.
		return countryCode + number[len(countryCode)+1:]
	default:
		return number
	}
}

// PhoneCandidates returns the phone forms an inbound sender may be stored
// under: the normalized number plus the bare 10-digit local suffix with the
// country code re-applied. Used to survive provider formatting drift.
func PhoneCandidates(raw, countryCode string) []string {
	if countryCode == "" {
		countryCode = defaultCountryCode
	}
	normalized := NormalizePhone(raw, countryCode)
	if normalized == "" {
		return nil
	}
	candidates := []string{normalized}
	if len(normalized) > 10 {
		suffix := normalized[len(normalized)-10:]
		withCC := countryCode + suffix
		if withCC != normalized {
			candidates = append(candidates, withCC)
		}
	}
	return candidates
}
