package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/outreach/internal/domain"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare company name gets .com", "example", "example.com"},
		{"already .com", "corp.com", "corp.com"},
		{"io domain untouched", "corp.io", "corp.io"},
		{"trims and lowercases", "  Example.COM  ", "example.com"},
		{"strips scheme", "https://acme.com", "acme.com"},
		{"strips www and trailing slash", "www.acme.com/", "acme.com"},
		{"empty stays empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDomain(tt.in))
		})
	}
}

func TestGenerateFixedOrderAndCount(t *testing.T) {
	got, err := GenerateFixed("John", "Doe", "example")
	require.NoError(t, err)

	require.Len(t, got, FixedShapeCount)

	// Stable order: first candidate is first.last; every entry is bound
	// to the normalized domain.
	assert.Equal(t, "john.doe@example.com", got[0])
	for _, c := range got {
		assert.Contains(t, c, "@example.com")
	}
	assert.Contains(t, got, "jd@example.com")
	assert.Contains(t, got, "j.doe@example.com")
	assert.Contains(t, got, "doe-john@example.com")

	// A second call yields the identical sequence.
	again, err := GenerateFixed("John", "Doe", "example")
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestGenerateFixedRejectsEmptyNames(t *testing.T) {
	_, err := GenerateFixed("", "Doe", "example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = GenerateFixed("John", "   ", "example.com")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExpandTemplate(t *testing.T) {
	got, err := Expand("{f}.{lastname}@{domain}", "Jane", "Smith", "corp.com")
	require.NoError(t, err)
	assert.Equal(t, "j.smith@corp.com", got)
}

func TestExpandReplacesAllOccurrences(t *testing.T) {
	// Repeated tokens are all substituted.
	got, err := Expand("{f}{f}.{lastname}@{domain}", "Jane", "Smith", "corp.com")
	require.NoError(t, err)
	assert.Equal(t, "jj.smith@corp.com", got)
}

func TestExpandIsIdempotentWithoutCollisions(t *testing.T) {
	once, err := Expand("{firstname}.{lastname}@{domain}", "Jane", "Smith", "corp.com")
	require.NoError(t, err)

	// Substituting the already-expanded output changes nothing.
	twice, err := Expand(once, "Jane", "Smith", "corp.com")
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestExpandAllPreservesOrder(t *testing.T) {
	people := []domain.Person{
		{FirstName: "Ada", LastName: "Lovelace"},
		{FirstName: "Alan", LastName: "Turing"},
		{FirstName: "Grace", LastName: "Hopper"},
	}

	got, err := ExpandAll("{firstname}.{lastname}@{domain}", "corp.com", people)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"ada.lovelace@corp.com",
		"alan.turing@corp.com",
		"grace.hopper@corp.com",
	}, got)
}

func TestExpandAllFailsOnInvalidPerson(t *testing.T) {
	people := []domain.Person{
		{FirstName: "Ada", LastName: "Lovelace"},
		{FirstName: "", LastName: "Turing"},
	}

	_, err := ExpandAll("{firstname}@{domain}", "corp.com", people)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
