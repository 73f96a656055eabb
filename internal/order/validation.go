package order

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxColors      = 6
	MaxNoteRunes   = 1000
	maxDescription = 600
	minTitle       = 3
	maxTitle       = 120
)

var hexColor = regexp.MustCompile(`^#([0-9A-F]{3}|[0-9A-F]{6})$`)

// NormalizeColor devolve a cor em #RGB/#RRGGBB maiúsculo.
func NormalizeColor(c string) (string, bool) {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c != "" && !strings.HasPrefix(c, "#") {
		c = "#" + c
	}
	return c, hexColor.MatchString(c)
}

// NormalizeColors aplica as regras do modo: mono fica só com a primeira cor.
func NormalizeColors(mode ColorMode, colors []string) ([]string, error) {
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		if strings.TrimSpace(c) == "" {
			continue
		}
		n, ok := NormalizeColor(c)
		if !ok {
			return nil, fmt.Errorf("%w: invalid color %q", ErrInvalidInput, c)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: at least one color is required", ErrInvalidInput)
	}
	switch mode {
	case ColorMono:
		return out[:1], nil
	case ColorColor:
		if len(out) > MaxColors {
			return nil, fmt.Errorf("%w: at most %d colors", ErrInvalidInput, MaxColors)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: colorMode must be mono or color", ErrInvalidInput)
	}
}

// ClipNote limita a nota a MaxNoteRunes runas.
func ClipNote(note string) string {
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) <= MaxNoteRunes {
		return note
	}
	return string([]rune(note)[:MaxNoteRunes])
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < minTitle || n > maxTitle {
		return "", fmt.Errorf("%w: title must have between %d and %d characters", ErrInvalidInput, minTitle, maxTitle)
	}
	return title, nil
}

// resolveDescription usa details quando description vem vazio.
func resolveDescription(description, details string) (string, error) {
	d := strings.TrimSpace(description)
	if d == "" {
		d = strings.TrimSpace(details)
	}
	if d == "" {
		return "", fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(d) > maxDescription {
		return "", fmt.Errorf("%w: description must have at most %d characters", ErrInvalidInput, maxDescription)
	}
	return d, nil
}
