package option

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsPattern(t *testing.T) {
	cases := map[string]string{
		"Madar Corp": "%madar corp%",
		"  50% Off ": "%50!% off%",
		"north_gate": "%north!_gate%",
		"wow!":       "%wow!!%",
		"":           "%%",
	}
	for in, want := range cases {
		assert.Equal(t, want, ContainsPattern(in), in)
	}
}
