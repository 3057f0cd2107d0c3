// Package i18n renders localized messages for the stable error codes.
// Catalogs are embedded JSON files, one flat code → template map per language.
package i18n

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

const DefaultLang = "en"

//go:embed locales/*.json
var localeFS embed.FS

// supported tags; English first so it is the matcher fallback
var supported = []language.Tag{
	language.English,
	language.Chinese,
}

type Catalog struct {
	messages map[string]map[string]*template.Template // lang → code → template
	matcher  language.Matcher
}

// Load parses every embedded locale file.
func Load() (*Catalog, error) {
	c := &Catalog{
		messages: make(map[string]map[string]*template.Template),
		matcher:  language.NewMatcher(supported),
	}

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		data, err := localeFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, err
		}
		lang := strings.TrimSuffix(entry.Name(), ".json")
		if err := c.add(lang, data); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Catalog) add(lang string, data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("i18n: parse catalog %s: %w", lang, err)
	}

	parsed := make(map[string]*template.Template, len(raw))
	for code, text := range raw {
		tmpl, err := template.New(code).Option("missingkey=zero").Parse(text)
		if err != nil {
			return fmt.Errorf("i18n: parse %s/%s: %w", lang, code, err)
		}
		parsed[code] = tmpl
	}
	c.messages[lang] = parsed
	return nil
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the process-wide catalog built from the embedded files.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load()
		if err != nil {
			// embedded files are compiled in; a parse failure is a build defect
			panic(err)
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Localize renders code in lang, falling back to English and then to the
// code itself.
func (c *Catalog) Localize(lang, code string, params map[string]string) string {
	tmpl := c.lookup(lang, code)
	if tmpl == nil {
		return code
	}
	if params == nil {
		params = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return code
	}
	return buf.String()
}

// Has reports whether any catalog defines code.
func (c *Catalog) Has(code string) bool {
	return c.lookup(DefaultLang, code) != nil
}

func (c *Catalog) lookup(lang, code string) *template.Template {
	if catalog, ok := c.messages[lang]; ok {
		if tmpl, ok := catalog[code]; ok {
			return tmpl
		}
	}
	if lang != DefaultLang {
		if tmpl, ok := c.messages[DefaultLang][code]; ok {
			return tmpl
		}
	}
	return nil
}

// Match picks the best supported language for an Accept-Language header.
func (c *Catalog) Match(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLang
	}
	tag, _ := language.MatchStrings(c.matcher, acceptLanguage)
	base, _ := tag.Base()
	if base.String() == "zh" {
		return "zh"
	}
	return DefaultLang
}
