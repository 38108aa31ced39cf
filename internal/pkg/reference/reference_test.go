package reference

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_Format(t *testing.T) {
	ref := New(PrefixStay)

	assert.Regexp(t, `^HS-\d{8}T\d{6}-[A-Z2-9]{4}$`, ref)
	for _, bad := range []string{"0", "O", "1", "I", "L"} {
		suffix := ref[strings.LastIndex(ref, "-")+1:]
		assert.NotContains(t, suffix, bad)
	}
}

func TestNew_Prefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(New(PrefixStay), "HS-"))
	assert.True(t, strings.HasPrefix(New(PrefixTour), "TR-"))
}
