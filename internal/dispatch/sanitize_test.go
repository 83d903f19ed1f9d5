package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain text unchanged", input: "Order shipped", expected: "Order shipped"},
		{name: "tags stripped", input: "<b>Order</b> <i>shipped</i>", expected: "Order shipped"},
		{name: "script content removed", input: "<script>alert(1)</script>Hi", expected: "Hi"},
		{name: "entities round-trip", input: "R&D update", expected: "R&D update"},
		{name: "whitespace trimmed", input: "  padded  ", expected: "padded"},
		{name: "link text survives", input: `<a href="https://x.test">details</a>`, expected: "details"},
		{name: "empty stays empty", input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, sanitize(tc.input))
		})
	}
}
