package phone

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare mobile ten digits", in: "9161234567", want: "+79161234567"},
		{name: "trunk prefix eleven digits", in: "89161234567", want: "+79161234567"},
		{name: "country code eleven digits", in: "79161234567", want: "+79161234567"},
		{name: "already international", in: "+79161234567", want: "+79161234567"},
		{name: "formatted with punctuation", in: "8 (916) 123-45-67", want: "+79161234567"},
		{name: "plus with punctuation", in: "+7 916 123 45 67", want: "+79161234567"},
		{name: "foreign number keeps plus", in: "+12025550123", want: "+12025550123"},
		{name: "foreign digits get plus", in: "442071234567", want: "+442071234567"},
		{name: "short number gets plus", in: "12345", want: "+12345"},
		{name: "no digits returned unchanged", in: "abc", want: "abc"},
		{name: "empty returned unchanged", in: "", want: ""},
		{name: "plus but non-standard length keeps raw", in: "+7916", want: "+7916"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{"9161234567", "89161234567", "79161234567", "+12025550123", "8 (916) 123-45-67"}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalizing %q twice should be stable", in)
	}
}

func TestNormalizeAllMobilePrefixes(t *testing.T) {
	// Every 9xx-prefixed ten-digit number gets the +7 country code.
	for prefix := 900; prefix <= 999; prefix++ {
		in := fmt.Sprintf("%d1234567", prefix)
		assert.Equal(t, "+7"+in, Normalize(in))
	}
}
