package selector

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZebulonRouseFrantzich/qbdifetch/internal/release"
)

func assets(names ...string) []release.Asset {
	out := make([]release.Asset, 0, len(names))
	for _, n := range names {
		out = append(out, release.Asset{Name: n, BrowserDownloadURL: "https://example.invalid/" + n})
	}
	return out
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name      string
		assets    []string
		want      string
		wantRule  int
		wantNoHit bool
	}{
		{
			name:     "primary_first_of_two",
			assets:   []string{"qbdi-android-x86_64.tar.gz", "qbdi-linux-x86_64.tar.gz"},
			want:     "qbdi-android-x86_64.tar.gz",
			wantRule: 0,
		},
		{
			name:     "primary_after_non_matching",
			assets:   []string{"qbdi-linux-x86_64.tar.gz", "qbdi-ios-arm64.zip", "qbdi-android-X86_64.tgz"},
			want:     "qbdi-android-X86_64.tgz",
			wantRule: 0,
		},
		{
			name:     "primary_first_of_several_matches",
			assets:   []string{"notes.txt", "qbdi-android-x86_64.tar.xz", "qbdi-android-x86_64.zip"},
			want:     "qbdi-android-x86_64.tar.xz",
			wantRule: 0,
		},
		{
			name:     "primary_beats_earlier_fallback_match",
			assets:   []string{"qbdi-android-x86_64-symbols.txt", "qbdi-android-x86_64.zip"},
			want:     "qbdi-android-x86_64.zip",
			wantRule: 0,
		},
		{
			name:     "fallback_case_insensitive",
			assets:   []string{"QBDI-Android-X86_64.zip"},
			want:     "QBDI-Android-X86_64.zip",
			wantRule: 1,
		},
		{
			name:     "fallback_any_order",
			assets:   []string{"qbdi-linux.zip", "x86_64-qbdi-android.deb"},
			want:     "x86_64-qbdi-android.deb",
			wantRule: 1,
		},
		{
			name:      "no_match",
			assets:    []string{"qbdi-ios-arm64.zip"},
			wantNoHit: true,
		},
		{
			name:      "empty_list",
			assets:    nil,
			wantNoHit: true,
		},
	}

	rules := DefaultRules()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, rule, err := SelectWithRule("v0.12.0", assets(tt.assets...), rules)
			if tt.wantNoHit {
				require.Error(t, err)
				var nm *NoMatchError
				require.True(t, errors.As(err, &nm))
				assert.Equal(t, "v0.12.0", nm.Tag)
				assert.Equal(t, len(tt.assets), nm.Count)
				assert.Nil(t, rule)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			assert.Equal(t, "https://example.invalid/"+tt.want, got.BrowserDownloadURL)
			assert.Same(t, rules[tt.wantRule], rule)
		})
	}
}

func TestNoMatchErrorMessage(t *testing.T) {
	_, err := Select("v0.12.0", assets("qbdi-ios-arm64.zip", "qbdi-osx.pkg"), DefaultRules())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "v0.12.0")
	assert.Contains(t, err.Error(), "2 assets")
}

func TestSelect_CustomRules(t *testing.T) {
	arm, err := NewRegexpMatcher(`(?i)android.*arm64.*\.zip$`)
	require.NoError(t, err)

	rules := Rules{nil, arm}
	got, err := Select("v1", assets("qbdi-android-x86_64.zip", "QBDI-ANDROID-ARM64.zip"), rules)
	require.NoError(t, err)
	assert.Equal(t, "QBDI-ANDROID-ARM64.zip", got.Name)
}

func TestSelect_NoRules(t *testing.T) {
	_, err := Select("v1", assets("qbdi-android-x86_64.zip"), nil)
	var nm *NoMatchError
	require.True(t, errors.As(err, &nm))
	assert.Equal(t, 1, nm.Count)
}
