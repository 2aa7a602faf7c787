package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskEmail(t *testing.T) {
	cases := map[string]string{
		"lucia@example.com":   "l…@e….com",
		"DJ@Studio.ES":        "d…@s….es",
		"a@b.co":              "a@b.co",
		"no-arroba":           "n…a",
		"ab":                  "***",
		"":                    "",
		"  pepe@mail.com  ":   "p…@m….com",
	}
	for in, want := range cases {
		assert.Equal(t, want, MaskEmail(in), "input %q", in)
	}
}
