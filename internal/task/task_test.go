package task

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKind(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		taskName string
		want     Kind
		wantErr  bool
	}{
		{name: "discovery by name", taskName: "Get Maintainers", want: KindDiscovery},
		{name: "mail by name", taskName: "Send Email", want: KindMail},
		{name: "name match is exact", taskName: "send email", want: KindGeneric},
		{name: "trailing space is generic", taskName: "Send Email ", want: KindGeneric},
		{name: "other names are generic", taskName: "checkpatch", want: KindGeneric},
		{name: "explicit kind wins over name", explicit: "generic", taskName: "Send Email", want: KindGeneric},
		{name: "explicit discovery", explicit: "discovery", taskName: "maintainers", want: KindDiscovery},
		{name: "explicit kind is case-insensitive", explicit: "Mail", taskName: "mail it", want: KindMail},
		{name: "unknown explicit kind", explicit: "mial", taskName: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveKind(tt.explicit, tt.taskName)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownKind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "generic", KindGeneric.String())
	assert.Equal(t, "discovery", KindDiscovery.String())
	assert.Equal(t, "mail", KindMail.String())
	assert.Equal(t, "Kind(9)", Kind(9).String())

	for _, k := range []Kind{KindGeneric, KindDiscovery, KindMail} {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}
}

func TestKind_IsBuiltin(t *testing.T) {
	assert.False(t, KindGeneric.IsBuiltin())
	assert.True(t, KindDiscovery.IsBuiltin())
	assert.True(t, KindMail.IsBuiltin())
}

func TestExpandArgs(t *testing.T) {
	const patch = "/src/linux/0001-fix.patch"

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{name: "whole arg", template: "{patch}", want: patch},
		{name: "embedded", template: "--file={patch}", want: "--file=" + patch},
		{name: "repeated", template: "{patch}:{patch}", want: patch + ":" + patch},
		{name: "no placeholder", template: "--strict", want: "--strict"},
		{name: "near miss untouched", template: "{patch }{Patch}", want: "{patch }{Patch}"},
		{name: "empty", template: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandArgs([]string{tt.template}, patch)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
			assert.Equal(t, strings.ReplaceAll(tt.template, PatchPlaceholder, patch), got[0])
		})
	}
}

func TestTask_ExpandArgsDoesNotMutate(t *testing.T) {
	tk := Task{Args: []string{"{patch}", "-q"}}

	got := tk.ExpandArgs("/p")

	assert.Equal(t, []string{"/p", "-q"}, got)
	assert.Equal(t, []string{"{patch}", "-q"}, tk.Args)
}

func TestTask_ReferencesPatch(t *testing.T) {
	assert.True(t, Task{Args: []string{"-q", "x{patch}"}}.ReferencesPatch())
	assert.False(t, Task{Args: []string{"-q"}}.ReferencesPatch())
	assert.False(t, Task{}.ReferencesPatch())
}

func TestTask_CommandWords(t *testing.T) {
	assert.Equal(t, []string{"git", "send-email", "--annotate"}, Task{Command: "  git  send-email\t--annotate "}.CommandWords())
	assert.Empty(t, Task{Command: "   "}.CommandWords())
}
