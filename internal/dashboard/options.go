package dashboard

import "strings"

// Option is one entry of a choice list offered by a user interface.
type Option struct {
	Key  string
	Text string
}

// AppearanceOptions returns the theme choices in display order.
func AppearanceOptions() []Option {
	opts := make([]Option, len(Appearances))
	for i, a := range Appearances {
		opts[i] = Option{Key: string(a), Text: a.DisplayName()}
	}
	return opts
}

// AlignOptions returns the layout choices in display order.
func AlignOptions() []Option {
	opts := make([]Option, len(Aligns))
	for i, a := range Aligns {
		opts[i] = Option{Key: a.String(), Text: a.String()}
	}
	return opts
}

// ResolveAppearanceOption maps an option key to its theme.
// Keys must match exactly; anything else reports ok=false.
func ResolveAppearanceOption(key string) (Appearance, bool) {
	a := Appearance(key)
	if !a.Valid() {
		return "", false
	}
	return a, true
}

// ResolveAlignOption maps an option key to its layout.
func ResolveAlignOption(key string) (Align, bool) {
	for a, name := range alignNames {
		if name == key {
			return a, true
		}
	}
	return 0, false
}

// ParseAppearance is the lenient, case-insensitive form used by the CLI.
func ParseAppearance(s string) (Appearance, error) {
	if a, ok := ResolveAppearanceOption(strings.ToLower(strings.TrimSpace(s))); ok {
		return a, nil
	}
	return "", NewInvalidValueError(FieldAppearance, s)
}

// ParseAlign is the lenient, case-insensitive form used by the CLI.
func ParseAlign(s string) (Align, error) {
	want := strings.TrimSpace(s)
	for _, a := range Aligns {
		if strings.EqualFold(a.String(), want) {
			return a, nil
		}
	}
	return 0, NewInvalidValueError(FieldAlign, s)
}
