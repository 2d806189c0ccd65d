package content_test

import (
	"strings"
	"testing"

	"github.com/lumastack/lumastack.com/internal/content"
)

func TestSanitizeRichText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain formatting survives",
			input: `<p>Ship <strong>faster</strong> with <em>Lumastack</em>.</p>`,
			want:  `<p>Ship <strong>faster</strong> with <em>Lumastack</em>.</p>`,
		},
		{
			name:  "script subtree dropped entirely",
			input: `<p>before</p><script>alert("x")</script><p>after</p>`,
			want:  `<p>before</p><p>after</p>`,
		},
		{
			name:  "event handlers stripped",
			input: `<p onclick="steal()">hi</p>`,
			want:  `<p>hi</p>`,
		},
		{
			name:  "javascript href stripped",
			input: `<a href="javascript:alert(1)">click</a>`,
			want:  `<a>click</a>`,
		},
		{
			name:  "https href kept",
			input: `<a href="https://lumastack.com/pricing">pricing</a>`,
			want:  `<a href="https://lumastack.com/pricing">pricing</a>`,
		},
		{
			name:  "relative href kept",
			input: `<a href="/docs">docs</a>`,
			want:  `<a href="/docs">docs</a>`,
		},
		{
			name:  "unknown tags unwrapped but text kept",
			input: `<marquee>limited offer</marquee>`,
			want:  `limited offer`,
		},
		{
			name:  "comments dropped",
			input: `<p>a</p><!-- secret -->`,
			want:  `<p>a</p>`,
		},
		{
			name:  "target blank gains rel noopener",
			input: `<a href="https://example.com" target="_blank">out</a>`,
			want:  `<a href="https://example.com" target="_blank" rel="noopener">out</a>`,
		},
		{
			name:  "style subtree dropped",
			input: `<style>body { display: none }</style><p>ok</p>`,
			want:  `<p>ok</p>`,
		},
		{
			name:  "image attributes filtered",
			input: `<img src="/hero.png" alt="Hero" onerror="x()" data-track="1">`,
			want:  `<img src="/hero.png" alt="Hero">`,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := content.SanitizeRichText(tc.input); got != tc.want {
				t.Fatalf("SanitizeRichText(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSanitizeRichTextNeverEmitsScript(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`<SCRIPT SRC="https://evil.example/x.js"></SCRIPT>`,
		`<div><script><script>nested</script></script></div>`,
		`<a href=" javascript:alert(1)">x</a>`,
		`<img src="javascript:alert(1)">`,
	}
	for _, input := range inputs {
		got := content.SanitizeRichText(input)
		if strings.Contains(strings.ToLower(got), "script") {
			t.Fatalf("sanitized output still mentions script: %q -> %q", input, got)
		}
		if strings.Contains(strings.ToLower(got), "javascript:") {
			t.Fatalf("sanitized output still has javascript url: %q -> %q", input, got)
		}
	}
}
