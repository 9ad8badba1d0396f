package i18n

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultBundleHasLocales(t *testing.T) {
	locales := Default().Locales()
	if len(locales) != 2 || locales[0] != "en-US" || locales[1] != "pt-BR" {
		t.Fatalf("locales = %v, want [en-US pt-BR]", locales)
	}
}

func TestTranslationsAreComplete(t *testing.T) {
	if missing := Default().MissingKeys("pt-BR"); len(missing) != 0 {
		t.Fatalf("pt-BR missing keys: %v", missing)
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	got, ok := Default().Message("fr-FR", "notice.no_classes")
	if !ok {
		t.Fatal("expected fallback message")
	}
	if got != "No classes available" {
		t.Fatalf("message = %q, want %q", got, "No classes available")
	}
}

func TestPrinterLocalizesNotices(t *testing.T) {
	tests := []struct {
		locale string
		want   string
	}{
		{locale: "en-US", want: "Logged in as Ann"},
		{locale: "pt-BR", want: "Conectado como Ann"},
		{locale: "pt", want: "Conectado como Ann"},
		{locale: "", want: "Logged in as Ann"},
		{locale: "not a locale", want: "Logged in as Ann"},
	}
	for _, tt := range tests {
		t.Run(tt.locale, func(t *testing.T) {
			if got := Printer(tt.locale).Sprintf("notice.logged_in", "Ann"); got != tt.want {
				t.Fatalf("Sprintf = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "locales/en-US/web.yaml"), `locale: "en-US"
namespace: "web"
messages:
  "notice.bad": "nope"
`)
	if _, err := LoadFromFS(os.DirFS(dir)); err == nil {
		t.Fatal("expected namespace prefix error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "locales/pt-BR/web.yaml"), `locale: "pt-BR"
namespace: "web"
messages:
  "web.title": "Academia"
`)
	if _, err := LoadFromFS(os.DirFS(dir)); err == nil {
		t.Fatal("expected missing base locale error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	dir := t.TempDir()
	mustWriteFile(t, filepath.Join(dir, "locales/en-US/web.yaml"), `locale: "pt-BR"
namespace: "web"
messages:
  "web.title": "Academia"
`)
	if _, err := LoadFromFS(os.DirFS(dir)); err == nil {
		t.Fatal("expected locale mismatch error")
	}
}

func TestParseCatalogHandlesEscapes(t *testing.T) {
	file, err := parseCatalog(`locale: "en-US"
namespace: "web"
messages:
  "web.quote": "say \"hi\": now"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := file.messages["web.quote"]; got != `say "hi": now` {
		t.Fatalf("message = %q", got)
	}
}

func mustWriteFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
