package generic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brogergvhs/mangascout/internal/providers/generic"
)

func TestSearchURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		query    string
		want     string
	}{
		{
			name:  "default engine",
			query: "One Piece",
			want:  "https://search.brave.com/search?q=One+Piece+manga+chapters+free",
		},
		{
			name:     "custom placeholder",
			template: "https://duckduckgo.com/html/?q=%s&ia=web",
			query:    " a&b ",
			want:     "https://duckduckgo.com/html/?q=a%26b+manga+chapters+free&ia=web",
		},
		{
			name:     "no placeholder",
			template: "https://example.com/find?term=",
			query:    "x",
			want:     "https://example.com/find?term=x+manga+chapters+free",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, generic.SearchURL(tt.template, tt.query))
		})
	}
}
