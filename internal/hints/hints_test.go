package hints

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestHints - Static hint content
// ---------------------------------------------------------------------------

func TestHints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		hint         string
		wantContains []string
	}{
		{"config parse", ForConfigParse(), []string{"YAML", "unknown keys"}},
		{"content dir", ForContentDir(), []string{"--content", "SITEGEN_CONTENT_DIR", "; "}},
		{"slug collision", ForSlugCollision(), []string{"rename", "/tags"}},
		{"front matter", ForFrontmatter(), []string{"title", "date"}},
		{"output directory", ForOutputDirectory(), []string{"writable"}},
		{"asset path", ForAssetPath(), []string{"templates", "site.css"}},
		{"listen", ForListen(), []string{"--addr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !strings.HasPrefix(tt.hint, "\n  hint: ") {
				t.Errorf("hint should start with the hint prefix, got %q", tt.hint)
			}
			for _, want := range tt.wantContains {
				if !strings.Contains(tt.hint, want) {
					t.Errorf("hint should contain %q, got %q", want, tt.hint)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestForConfigNotFound - User config suggestion
// ---------------------------------------------------------------------------

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		searched     []string
		wantContains []string
		wantExcludes []string
	}{
		{
			name:         "no paths",
			searched:     nil,
			wantContains: []string{"--config"},
			wantExcludes: []string{"create"},
		},
		{
			name:         "user config path suggested",
			searched:     []string{"sitegen.yaml", "/home/u/.config/sitegen/sitegen.yaml"},
			wantContains: []string{"--config", "create /home/u/.config/sitegen/sitegen.yaml"},
		},
		{
			name:         "local paths only",
			searched:     []string{"sitegen.yaml", "sitegen.yml"},
			wantContains: []string{"--config"},
			wantExcludes: []string{"create"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.searched)
			for _, want := range tt.wantContains {
				if !strings.Contains(hint, want) {
					t.Errorf("hint should contain %q, got %q", want, hint)
				}
			}
			for _, exclude := range tt.wantExcludes {
				if strings.Contains(hint, exclude) {
					t.Errorf("hint should not contain %q, got %q", exclude, hint)
				}
			}
		})
	}
}

func TestFormatHints_Empty(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
