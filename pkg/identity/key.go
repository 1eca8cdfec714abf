package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Key is the normalized person-position-organization identity used to
// group appointment records across years. Two records with an equal,
// non-empty Key are treated as the same identity.
type Key struct {
	Name     string
	Position string
	Org      string
}

// Empty reports whether any component is blank. Records with an empty
// component carry too little signal to group and are treated as singletons.
func (k Key) Empty() bool {
	return k.Name == "" || k.Position == "" || k.Org == ""
}

// honorifics are leading tokens stripped from names before comparison.
// Stored post-normalization (lowercase, no punctuation).
var honorifics = map[string]bool{
	"mr":         true,
	"mrs":        true,
	"ms":         true,
	"miss":       true,
	"mme":        true,
	"dr":         true,
	"prof":       true,
	"professor":  true,
	"rev":        true,
	"reverend":   true,
	"hon":        true,
	"honourable": true,
	"honorable":  true,
	"sen":        true,
	"senator":    true,
}

// KeyOf derives the identity key for the given name, position, and org.
// Each component is lowercased, trimmed, stripped of diacritics and light
// punctuation, and has internal whitespace collapsed; the name additionally
// loses any leading honorific tokens.
func KeyOf(name, position, org string) Key {
	return Key{
		Name:     stripHonorifics(normalizeComponent(name)),
		Position: normalizeComponent(position),
		Org:      normalizeComponent(org),
	}
}

// normalizeComponent applies the shared cleanup: lowercase, diacritic
// stripping, punctuation removal, whitespace collapse.
func normalizeComponent(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	s = stripDiacritics(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case r == '\'' || r == '’' || r == '.' || r == ',' || r == '"':
			// Light punctuation disappears entirely: "O'Neill" == "ONeill".
		case r == ' ' || r == '\t' || r == '-' || r == '/' || r == '&':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// Anything else separates tokens the same way whitespace does.
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// stripHonorifics drops leading honorific tokens from a normalized name.
func stripHonorifics(name string) string {
	tokens := strings.Split(name, " ")
	i := 0
	for i < len(tokens)-1 && honorifics[tokens[i]] {
		i++
	}
	return strings.Join(tokens[i:], " ")
}

// stripDiacritics removes combining marks after NFD decomposition, so
// "Hébert" and "Hebert" compare equal.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
