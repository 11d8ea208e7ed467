// Package i18n provides the message catalog used to render end-user text.
//
// Catalogs are YAML documents whose nested keys are flattened with dots
// ("errors.urlNotFound"). Templates interpolate parameters written as
// {{name}}. Lookups fall back to the bundle's default language and finally
// to the key itself, so a Translator never returns an empty string for a
// non-empty key.
//
//	bundle, err := i18n.Default()
//	if err != nil {
//	    return err
//	}
//	tr := bundle.Localizer("de-CH")
//	fmt.Println(tr.Translate("errors.urlNotFound", nil))
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// Params are the interpolation values of a template.
type Params map[string]any

// Translator renders the template registered under key.
type Translator interface {
	Translate(key string, params Params) string
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(key string, params Params) string

// Translate implements Translator.
func (f TranslatorFunc) Translate(key string, params Params) string {
	return f(key, params)
}

//go:embed locales/*.yaml
var locales embed.FS

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Bundle holds catalogs for one or more languages.
type Bundle struct {
	mu       sync.RWMutex
	fallback language.Tag
	tags     []language.Tag
	catalogs map[language.Tag]map[string]string

	matcher   language.Matcher
	supported []language.Tag
}

// NewBundle creates an empty bundle whose default language is fallback.
func NewBundle(fallback language.Tag) *Bundle {
	return &Bundle{
		fallback: fallback,
		catalogs: make(map[language.Tag]map[string]string),
	}
}

// Default returns a bundle loaded with the embedded catalogs, defaulting to English.
func Default() (*Bundle, error) {
	b := NewBundle(language.English)
	if err := b.LoadFS(locales, "locales"); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFS adds every "<tag>.yaml" file found in dir of fsys.
func (b *Bundle) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read catalog directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		tag, err := language.Parse(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			return fmt.Errorf("invalid catalog name %s: %w", e.Name(), err)
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("failed to read catalog %s: %w", e.Name(), err)
		}
		if err := b.AddYAML(tag, data); err != nil {
			return err
		}
	}
	return nil
}

// AddYAML merges a YAML catalog into the entries for tag.
func (b *Bundle) AddYAML(tag language.Tag, data []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s catalog: %w", tag, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	catalog, ok := b.catalogs[tag]
	if !ok {
		catalog = make(map[string]string)
		b.catalogs[tag] = catalog
		b.tags = append(b.tags, tag)
		b.matcher = nil
	}
	flatten("", doc, catalog)
	return nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case nil:
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

// Languages returns the languages the bundle has catalogs for.
func (b *Bundle) Languages() []language.Tag {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]language.Tag, len(b.tags))
	copy(out, b.tags)
	return out
}

// Localizer returns a Translator for the best supported match of the
// preferred languages (BCP 47 strings, Accept-Language values are accepted).
func (b *Bundle) Localizer(preferred ...string) *Localizer {
	tag := b.match(preferred)
	return &Localizer{
		bundle:  b,
		tag:     tag,
		printer: message.NewPrinter(tag),
	}
}

func (b *Bundle) match(preferred []string) language.Tag {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.tags) == 0 || len(preferred) == 0 {
		return b.fallback
	}
	if b.matcher == nil {
		// The fallback goes first so that it wins when nothing matches.
		supported := []language.Tag{b.fallback}
		for _, t := range b.tags {
			if t != b.fallback {
				supported = append(supported, t)
			}
		}
		b.matcher = language.NewMatcher(supported)
		b.supported = supported
	}
	_, idx := language.MatchStrings(b.matcher, preferred...)
	return b.supported[idx]
}

func (b *Bundle) lookup(tag language.Tag, key string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if catalog, ok := b.catalogs[tag]; ok {
		if tmpl, ok := catalog[key]; ok {
			return tmpl, true
		}
	}
	if catalog, ok := b.catalogs[b.fallback]; ok {
		if tmpl, ok := catalog[key]; ok {
			return tmpl, true
		}
	}
	return "", false
}

// Localizer translates keys for a single language.
type Localizer struct {
	bundle  *Bundle
	tag     language.Tag
	printer *message.Printer
}

// Language returns the language the localizer renders.
func (l *Localizer) Language() language.Tag {
	return l.tag
}

// Translate renders key with params. Unknown keys render as the key itself
// and missing parameters render as empty strings.
func (l *Localizer) Translate(key string, params Params) string {
	tmpl, ok := l.bundle.lookup(l.tag, key)
	if !ok {
		return key
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		v, ok := params[name]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return t
		case fmt.Stringer:
			return t.String()
		default:
			return l.printer.Sprintf("%v", t)
		}
	})
}
