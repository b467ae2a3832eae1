package crawler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/newsdigest/internal/crawler"
)

func TestCompileGlob(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		url     string
		want    bool
	}{
		{
			name:    "double star matches path segments",
			pattern: "https://www.wired.com/story/**",
			url:     "https://www.wired.com/story/some-article-slug",
			want:    true,
		},
		{
			name:    "double star matches nested paths",
			pattern: "https://www.wired.com/story/**",
			url:     "https://www.wired.com/story/2026/08/some-article",
			want:    true,
		},
		{
			name:    "different path rejected",
			pattern: "https://www.wired.com/story/**",
			url:     "https://www.wired.com/tag/programming",
			want:    false,
		},
		{
			name:    "different host rejected",
			pattern: "https://www.wired.com/story/**",
			url:     "https://example.com/story/some-article",
			want:    false,
		},
		{
			name:    "prefix without separator rejected",
			pattern: "https://www.wired.com/story/**",
			url:     "https://www.wired.com/storyboard/x",
			want:    false,
		},
		{
			name:    "single star stops at slash",
			pattern: "https://example.com/*/news",
			url:     "https://example.com/world/news",
			want:    true,
		},
		{
			name:    "single star does not cross slash",
			pattern: "https://example.com/*/news",
			url:     "https://example.com/world/europe/news",
			want:    false,
		},
		{
			name:    "dots match literally",
			pattern: "https://www.wired.com/story/**",
			url:     "https://wwwxwired.com/story/abc",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			re, err := crawler.CompileGlob(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.MatchString(tt.url))
		})
	}
}

func TestCompileGlob_Empty(t *testing.T) {
	t.Parallel()

	_, err := crawler.CompileGlob("   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, crawler.ErrEmptyGlob)
}
