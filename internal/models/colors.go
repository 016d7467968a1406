// internal/models/colors.go
package models

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf16"
)

// Project colors back booking bars, so the AA large-text threshold applies.
const wcagAAMinContrastRatio = 3.0
const darkTextColor = "#000000"
const lightTextColor = "#ffffff"

var hexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

func IsHexColor(value string) bool {
	return hexColorRegex.MatchString(strings.TrimSpace(value))
}

// ReadableTextColor picks black or white text, whichever contrasts more with background.
func ReadableTextColor(background string) (string, error) {
	dark, err := ContrastRatio(darkTextColor, background)
	if err != nil {
		return "", err
	}
	light, err := ContrastRatio(lightTextColor, background)
	if err != nil {
		return "", err
	}
	if dark >= light {
		return darkTextColor, nil
	}
	return lightTextColor, nil
}

// ValidateTextContrast rejects text/background pairs that fall below WCAG AA for large text.
func ValidateTextContrast(textColor, background string) error {
	ratio, err := ContrastRatio(textColor, background)
	if err != nil {
		return err
	}
	if ratio < wcagAAMinContrastRatio {
		return fmt.Errorf("text color %s on %s has contrast %.2f, need >= %.1f", textColor, background, ratio, wcagAAMinContrastRatio)
	}
	return nil
}

// ColorForName derives a stable muted color from a name. Bookings whose
// project has no stored color are drawn with it, matching the calendar UI.
func ColorForName(name string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(name)) {
		hash = int32(unit) + ((hash << 5) - hash)
	}
	var b strings.Builder
	b.WriteByte('#')
	for i := 0; i < 3; i++ {
		value := (hash >> (i * 8)) & 0xFF
		fmt.Fprintf(&b, "%02x", int(float64(value)*0.6)+70)
	}
	return b.String()
}

func ContrastRatio(textColor, backgroundColor string) (float64, error) {
	textL, err := relativeLuminance(textColor)
	if err != nil {
		return 0, err
	}
	backgroundL, err := relativeLuminance(backgroundColor)
	if err != nil {
		return 0, err
	}
	lightest := math.Max(textL, backgroundL)
	darkest := math.Min(textL, backgroundL)
	return (lightest + 0.05) / (darkest + 0.05), nil
}

func relativeLuminance(hexColor string) (float64, error) {
	r, g, b, err := parseHexColor(hexColor)
	if err != nil {
		return 0, err
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b), nil
}

func parseHexColor(hexColor string) (float64, float64, float64, error) {
	hexColor = strings.TrimSpace(hexColor)
	if !hexColorRegex.MatchString(hexColor) {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	value, err := strconv.ParseUint(strings.TrimPrefix(hexColor, "#"), 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid hex color: %s", hexColor)
	}

	r := float64((value >> 16) & 0xFF)
	g := float64((value >> 8) & 0xFF)
	b := float64(value & 0xFF)

	return r / 255, g / 255, b / 255, nil
}

func srgbToLinear(value float64) float64 {
	if value <= 0.03928 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}
