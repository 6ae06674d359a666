package conventional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Commit
		wantErr bool
		known   bool
	}{
		{
			name:    "type and scope",
			message: "feat(auth): add JWT token validation middleware",
			want:    Commit{Type: "feat", Scope: "auth", Subject: "add JWT token validation middleware"},
			known:   true,
		},
		{
			name:    "no scope",
			message: "chore: minor updates",
			want:    Commit{Type: "chore", Subject: "minor updates"},
			known:   true,
		},
		{
			name:    "breaking marker",
			message: "refactor(api)!: drop v1 routes",
			want:    Commit{Type: "refactor", Scope: "api", Subject: "drop v1 routes", IsBreaking: true},
			known:   true,
		},
		{
			name:    "breaking footer",
			message: "fix: rename flag\n\nBREAKING CHANGE: --dir is now -C",
			want:    Commit{Type: "fix", Subject: "rename flag", Body: "BREAKING CHANGE: --dir is now -C", IsBreaking: true},
			known:   true,
		},
		{
			name:    "uppercase type is lowered",
			message: "Build: bump go",
			want:    Commit{Type: "build", Subject: "bump go"},
		},
		{name: "free text", message: "updated some stuff", wantErr: true},
		{name: "missing space", message: "feat:thing", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.message)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
			assert.Equal(t, tt.known, got.KnownType())
		})
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	for _, msg := range []string{"feat(ui): implement responsive navbar", "docs: fix typo", "perf(db)!: drop index"} {
		c, err := Parse(msg)
		require.NoError(t, err)
		assert.Equal(t, msg, c.Header())
	}
}
