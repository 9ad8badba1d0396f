// Package i18n loads the user-facing message catalogs and exposes
// x/text printers for them.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

// Bundle holds every locale's messages keyed by message key.
type Bundle struct {
	locales map[string]map[string]string
}

type catalogFile struct {
	locale    string
	namespace string
	messages  map[string]string
}

var defaultBundle = mustLoadEmbedded()

// Default returns the process-wide embedded bundle. Its messages are
// registered with x/text/message at package init.
func Default() *Bundle {
	return defaultBundle
}

// LoadFromFS loads catalog files laid out as locales/<locale>/<namespace>.yaml.
func LoadFromFS(catalogFS fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(catalogFS, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(catalogFS, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		file, err := parseCatalog(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, file); err != nil {
			return nil, err
		}
	}
	if _, ok := bundle.locales[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if file.locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, file.locale, dirLocale)
	}
	if file.namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, file.namespace, fileNamespace)
	}
	messages, ok := b.locales[file.locale]
	if !ok {
		messages = map[string]string{}
		b.locales[file.locale] = messages
	}
	for key, value := range file.messages {
		if !strings.HasPrefix(key, file.namespace+".") {
			return fmt.Errorf("catalog %s: key %q must start with %q", p, key, file.namespace+".")
		}
		if _, exists := messages[key]; exists {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %q", p, key, file.locale)
		}
		messages[key] = value
	}
	return nil
}

// Register makes every message available to x/text/message printers.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		for key, value := range b.locales[locale] {
			if err := message.SetString(tag, key, value); err != nil {
				return fmt.Errorf("register %s %q: %w", locale, key, err)
			}
		}
	}
	return nil
}

// Locales returns the loaded locale identifiers, sorted.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Message returns one message with base-locale fallback.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if messages, ok := b.locales[strings.TrimSpace(locale)]; ok {
		if value, ok := messages[key]; ok {
			return value, true
		}
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

// MissingKeys lists base-locale keys that locale does not translate.
func (b *Bundle) MissingKeys(locale string) []string {
	translated := b.locales[locale]
	var missing []string
	for key := range b.locales[BaseLocale] {
		if _, ok := translated[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}

func mustLoadEmbedded() *Bundle {
	bundle, err := LoadFromFS(embeddedFS)
	if err != nil {
		panic(err)
	}
	if err := bundle.Register(); err != nil {
		panic(err)
	}
	return bundle
}

// parseCatalog reads the small YAML subset used by catalog files:
// quoted locale and namespace scalars followed by a flat messages map.
func parseCatalog(content string) (catalogFile, error) {
	out := catalogFile{messages: map[string]string{}}
	inMessages := false
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "locale:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "locale:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse locale: %w", err)
			}
			out.locale = value
		case strings.HasPrefix(line, "namespace:"):
			value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(line, "namespace:")))
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse namespace: %w", err)
			}
			out.namespace = value
		case line == "messages:":
			inMessages = true
		default:
			if !inMessages {
				return catalogFile{}, fmt.Errorf("unexpected line %q", line)
			}
			key, value, err := parseEntry(line)
			if err != nil {
				return catalogFile{}, fmt.Errorf("parse message entry %q: %w", line, err)
			}
			out.messages[key] = value
		}
	}
	switch {
	case out.locale == "":
		return catalogFile{}, fmt.Errorf("missing locale")
	case out.namespace == "":
		return catalogFile{}, fmt.Errorf("missing namespace")
	case len(out.messages) == 0:
		return catalogFile{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

func parseEntry(line string) (string, string, error) {
	end := closingQuote(line)
	if end < 0 {
		return "", "", fmt.Errorf("expected quoted key")
	}
	key, err := strconv.Unquote(line[:end+1])
	if err != nil {
		return "", "", fmt.Errorf("unquote key: %w", err)
	}
	rest := strings.TrimSpace(line[end+1:])
	if !strings.HasPrefix(rest, ":") {
		return "", "", fmt.Errorf("missing ':' separator")
	}
	value, err := strconv.Unquote(strings.TrimSpace(strings.TrimPrefix(rest, ":")))
	if err != nil {
		return "", "", fmt.Errorf("unquote value: %w", err)
	}
	return key, value, nil
}

// closingQuote returns the index of the quote ending a leading quoted token.
func closingQuote(s string) int {
	if !strings.HasPrefix(s, `"`) {
		return -1
	}
	escaped := false
	for i := 1; i < len(s); i++ {
		switch {
		case escaped:
			escaped = false
		case s[i] == '\\':
			escaped = true
		case s[i] == '"':
			return i
		}
	}
	return -1
}
