package format

import (
	"strings"

	"github.com/ignite/outreach/internal/domain"
)

// Placeholder tokens recognized in email format templates.
const (
	TokenFirstName = "{firstname}"
	TokenLastName  = "{lastname}"
	TokenFirstInit = "{f}"
	TokenLastInit  = "{l}"
	TokenDomain    = "{domain}"
)

// fixedShapes is the stable order of the fixed-set generator. Callers and
// tests rely on this order never changing.
var fixedShapes = []string{
	"{firstname}.{lastname}@{domain}",
	"{firstname}_{lastname}@{domain}",
	"{firstname}{lastname}@{domain}",
	"{firstname}{l}@{domain}",
	"{f}{lastname}@{domain}",
	"{f}.{lastname}@{domain}",
	"{firstname}@{domain}",
	"{lastname}@{domain}",
	"{f}{l}@{domain}",
	"{lastname}.{firstname}@{domain}",
	"{lastname}_{firstname}@{domain}",
	"{lastname}{firstname}@{domain}",
	"{lastname}{f}@{domain}",
	"{firstname}-{lastname}@{domain}",
	"{lastname}-{firstname}@{domain}",
}

// FixedShapeCount is the number of shapes the fixed-set generator produces.
const FixedShapeCount = 15

// knownTLDs are the suffixes NormalizeDomain recognizes as already
// carrying a top-level domain.
var knownTLDs = []string{
	".com", ".org", ".net", ".io", ".co", ".ai", ".dev", ".app",
	".edu", ".gov", ".biz", ".info",
}

// NormalizeDomain trims and lower-cases a domain, strips any scheme and
// trailing slash, and appends ".com" when the value does not end in a
// recognized TLD. The ".com" append is a guessing heuristic for bare
// company names ("acme" → "acme.com"), not domain validation.
func NormalizeDomain(domain string) string {
	d := strings.ToLower(strings.TrimSpace(domain))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	d = strings.TrimPrefix(d, "www.")
	d = strings.TrimSuffix(d, "/")
	if d == "" {
		return d
	}
	for _, tld := range knownTLDs {
		if strings.HasSuffix(d, tld) {
			return d
		}
	}
	return d + ".com"
}

// GenerateFixed expands a person's name against the fixed set of 15
// address shapes, in stable order, each bound to the normalized domain.
func GenerateFixed(firstName, lastName, rawDomain string) ([]string, error) {
	first, last, err := normalizeName(firstName, lastName)
	if err != nil {
		return nil, err
	}

	d := NormalizeDomain(rawDomain)
	out := make([]string, 0, len(fixedShapes))
	for _, shape := range fixedShapes {
		out = append(out, substitute(shape, first, last, d))
	}
	return out, nil
}

// Expand substitutes a person into an explicit format template bound to
// an already-resolved domain (the registry's stored domain is normalized
// here as well). Every occurrence of each token is replaced; earlier
// revisions of this system replaced only the first occurrence, which was
// an oversight.
func Expand(emailFormat, firstName, lastName, rawDomain string) (string, error) {
	first, last, err := normalizeName(firstName, lastName)
	if err != nil {
		return "", err
	}
	return substitute(emailFormat, first, last, NormalizeDomain(rawDomain)), nil
}

// ExpandAll generates one candidate per person, preserving input order.
func ExpandAll(emailFormat, rawDomain string, people []domain.Person) ([]string, error) {
	out := make([]string, 0, len(people))
	for _, p := range people {
		c, err := Expand(emailFormat, p.FirstName, p.LastName, rawDomain)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func normalizeName(firstName, lastName string) (first, last string, err error) {
	first = strings.ToLower(strings.TrimSpace(firstName))
	last = strings.ToLower(strings.TrimSpace(lastName))
	if first == "" {
		return "", "", domain.Validationf("first name is required")
	}
	if last == "" {
		return "", "", domain.Validationf("last name is required")
	}
	return first, last, nil
}

func substitute(template, first, last, domain string) string {
	r := strings.NewReplacer(
		TokenFirstName, first,
		TokenLastName, last,
		TokenFirstInit, initial(first),
		TokenLastInit, initial(last),
		TokenDomain, domain,
	)
	return r.Replace(template)
}

// initial returns the first rune of a name, not the first byte.
func initial(name string) string {
	for _, r := range name {
		return string(r)
	}
	return ""
}
