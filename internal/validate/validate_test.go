package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	for in, want := range map[string]bool{
		"ana@example.com":     true,
		" ana@example.co.cr ": true,
		"ana@example":         false,
		"ana example@x.com":   false,
		"@example.com":        false,
		"":                    false,
	} {
		_, ok := Email(in)
		assert.Equal(t, want, ok, in)
	}
}

func TestQ(t *testing.T) {
	q, ok := Q("  Volcán Arenal ")
	assert.True(t, ok)
	assert.Equal(t, "Volcán Arenal", q)

	for _, in := range []string{"Arenal (volcano)", `"cloud forest"`, "Tortuguero: turtles", "a/b & <c>"} {
		q, ok = Q(in)
		assert.True(t, ok, in)
		assert.Equal(t, in, q)
	}

	_, ok = Q("beach\x00")
	assert.False(t, ok)
	_, ok = Q("sur\u200bf")
	assert.False(t, ok)

	_, ok = Q("   ")
	assert.False(t, ok)

	q, ok = Q(strings.Repeat("a", 150))
	assert.True(t, ok)
	assert.Len(t, q, 100)
}

func TestQty(t *testing.T) {
	assert.Equal(t, 1, Qty(""))
	assert.Equal(t, 1, Qty("-3"))
	assert.Equal(t, 4, Qty("4"))
	assert.Equal(t, 50, Qty("999"))

	n, ok := SetQty("0")
	assert.True(t, ok)
	assert.Equal(t, 0, n)
	_, ok = SetQty("x")
	assert.False(t, ok)
	n, _ = SetQty("70")
	assert.Equal(t, 50, n)
}

func TestSlugAndRequired(t *testing.T) {
	_, ok := Slug("best-beaches_2024")
	assert.True(t, ok)
	_, ok = Slug("../etc/passwd")
	assert.False(t, ok)

	assert.True(t, Required("a", "b"))
	assert.False(t, Required("a", "  "))

	_, ok = Text("hello", 3)
	assert.False(t, ok)
	_, ok = Phone("+506 2222-3333")
	assert.True(t, ok)
}
