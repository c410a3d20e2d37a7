package lalamove

import (
	"errors"
	"strconv"
	"strings"
)

var ErrUnusablePhone = errors.New("phone number too short to normalize")

// FormatStop builds a carrier stop from raw coordinates. Latitude and
// longitude are clamped to their valid ranges, rounded to six decimals and
// rendered without trailing zeros, matching the carrier's decimal-string
// wire format.
func FormatStop(lat, lng float64, address string) Stop {
	return Stop{
		Coordinates: Coordinates{
			Lat: FormatCoordinate(lat, -90, 90),
			Lng: FormatCoordinate(lng, -180, 180),
		},
		Address: address,
	}
}

// FormatCoordinate clamps v into [min, max] and formats it with at most
// six decimal places, trailing zeros stripped.
func FormatCoordinate(v, min, max float64) string {
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}

	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")

	return s
}

// NormalizePhone converts a local-format Malaysian phone number to E.164.
// Non-digits are stripped first; a leading country code gets a "+", a
// leading zero becomes "+60", and anything at least nine digits long is
// assumed to be country-coded already. Shorter input is unusable and the
// caller falls back to its configured placeholder.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	p := digits.String()
	if p == "" {
		return "", ErrUnusablePhone
	}

	if strings.HasPrefix(p, "60") {
		return "+" + p, nil
	}

	if p[0] == '0' {
		return "+60" + p[1:], nil
	}

	if len(p) >= 9 {
		return "+" + p, nil
	}

	return "", ErrUnusablePhone
}

// PhoneOrFallback normalizes raw, returning the placeholder when raw is
// empty or unusable.
func PhoneOrFallback(raw, placeholder string) string {
	normalized, err := NormalizePhone(raw)
	if err != nil {
		return placeholder
	}

	return normalized
}
