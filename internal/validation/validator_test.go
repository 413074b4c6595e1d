package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type contactForm struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,contact_email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

type block struct {
	ID string `json:"id" validate:"required"`
}

type body struct {
	Blocks []block `json:"content" validate:"required,dive"`
}

func TestIsContactEmail(t *testing.T) {
	tests := map[string]bool{
		"ana@example.com":  true,
		"a.b+c@sub.dom.io": true,
		"foo@bar":          false,
		"foo bar@baz.com":  false,
		"@baz.com":         false,
		"foo@.":            false,
		"":                 false,
	}
	for in, want := range tests {
		assert.Equal(t, want, IsContactEmail(in), in)
	}
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(contactForm{Email: "foo@bar", Kind: "c"})
	assert.EqualError(t, err, "name is required; email must be a valid email address; kind must be one of: a b")

	assert.NoError(t, Struct(contactForm{Name: "Ana", Email: "ana@example.com"}))
}

func TestStructDivesIntoSlices(t *testing.T) {
	err := Struct(body{Blocks: []block{{ID: "a"}, {}}})
	assert.EqualError(t, err, "content[1].id is required")

	err = Struct(body{})
	assert.EqualError(t, err, "content is required")
}
