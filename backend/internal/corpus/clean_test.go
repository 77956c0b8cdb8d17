package corpus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"truncation marker", "Scientists found water on Mars… [+2043 chars]", "Scientists found water on Mars…"},
		{"markup", "<ul><li>Rover</li></ul> lands <b>safely</b>", "Rover lands safely"},
		{"consent banner", "Before you continue. If you click 'Accept all', we and our partners will store data on your device and more text", "Before you continue. and more text"},
		{"in other words", "We use cookies (in other words, use … tracking", "We use cookies tracking"},
		{"placeholders", "[Removed] headline [+] tail", "headline tail"},
		{"whitespace", "  line one\n\n\tline   two  ", "line one line two"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}
