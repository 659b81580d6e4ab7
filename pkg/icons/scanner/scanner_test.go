// SPDX-License-Identifier: MPL-2.0

package scanner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestExtractRefs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "double quotes",
			text: `{% icon "home" %}`,
			want: []string{"home"},
		},
		{
			name: "single quotes",
			text: `{% icon 'ion:heart' %}`,
			want: []string{"ion:heart"},
		},
		{
			name: "whitespace tolerant",
			text: `{%icon "a" %} {%   icon   "b" %}`,
			want: []string{"a", "b"},
		},
		{
			name: "duplicates collapse",
			text: `{% icon "home" %} {% icon "home" %} {% icon 'home' %}`,
			want: []string{"home"},
		},
		{
			name: "multiline",
			text: "<div>\n  {% icon \"hero:bell\" %}\n</div>\n{% icon 'fa:user' %}\n",
			want: []string{"fa:user", "hero:bell"},
		},
		{
			name: "other tags ignored",
			text: `{% load glyphs %} {% block "home" %} icon "nope"`,
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractRefs(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScanDir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.html"), `{% icon "home" %} {% icon "ion:heart" %}`)
	writeFile(t, filepath.Join(root, "notes.txt"), `{% icon "hero:bell" %}`)
	writeFile(t, filepath.Join(root, "app.js"), `{% icon "fa:user" %}`)
	writeFile(t, filepath.Join(root, "partials", "nav.html"), `{% icon "home" %} {% icon "menu" %}`)

	got := ScanDir(root, []string{".html", ".txt"})
	want := []string{"hero:bell", "home", "ion:heart", "menu"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScanDirMissingRoot(t *testing.T) {
	t.Parallel()

	got := ScanDir(filepath.Join(t.TempDir(), "nope"), []string{".html"})
	if len(got) != 0 {
		t.Errorf("expected empty result, got %v", got)
	}
}

func TestScanCorpusUnionsRoots(t *testing.T) {
	t.Parallel()

	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, filepath.Join(rootA, "a.html"), `{% icon "home" %}`)
	writeFile(t, filepath.Join(rootB, "b.html"), `{% icon "home" %} {% icon "bell" %}`)

	got := ScanCorpus([]string{rootA, rootB}, []string{".html"})
	want := []string{"bell", "home"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestScanCorpusDeduplicatesSymlinkedRoots(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	real := filepath.Join(base, "real")
	writeFile(t, filepath.Join(real, "a.html"), `{% icon "home" %}`)

	link := filepath.Join(base, "link")
	if err := os.Symlink(real, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}

	got := ScanCorpus([]string{real, link, real}, []string{".html"})
	want := []string{"home"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGroupByNamespace(t *testing.T) {
	t.Parallel()

	refs := []string{"home", "ion:home", "hero:bell", "hero:arrow-up", "bad:"}
	got := GroupByNamespace(refs, "ion")

	want := map[string][]string{
		"ion":  {"home"},
		"hero": {"arrow-up", "bell"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGroupByNamespaceDefault(t *testing.T) {
	t.Parallel()

	got := GroupByNamespace([]string{"menu", "home"}, "lucide")
	want := map[string][]string{"lucide": {"home", "menu"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
