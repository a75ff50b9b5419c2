// Package i18n loads the embedded UI copy and hands out x/text printers.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the fallback when a requested locale has no catalog.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

// Catalog holds every loaded locale.
type Catalog struct {
	builder  *catalog.Builder
	tags     []language.Tag
	matcher  language.Matcher
	messages map[string]map[string]string
}

// LoadEmbedded loads the catalogs shipped with the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/*.yaml from fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{
		builder:  catalog.NewBuilder(catalog.Fallback(language.MustParse(BaseLocale))),
		messages: map[string]map[string]string{},
	}
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		if err := c.add(path, file); err != nil {
			return nil, err
		}
	}
	if _, ok := c.messages[BaseLocale]; !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	sort.SliceStable(c.tags, func(i, j int) bool { return c.tags[i].String() == BaseLocale })
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(path string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", path)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return fmt.Errorf("catalog %s: parse locale %q: %w", path, locale, err)
	}
	if _, dup := c.messages[locale]; dup {
		return fmt.Errorf("catalog %s: locale %q already defined", path, locale)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", path)
	}
	for key, value := range file.Messages {
		if err := c.builder.SetString(tag, key, value); err != nil {
			return fmt.Errorf("catalog %s: set %q: %w", path, key, err)
		}
	}
	c.messages[locale] = file.Messages
	c.tags = append(c.tags, tag)
	return nil
}

// Locales returns the loaded locale names, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.messages))
	for l := range c.messages {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Keys returns the message keys of one locale, sorted.
func (c *Catalog) Keys(locale string) []string {
	msgs := c.messages[locale]
	out := make([]string, 0, len(msgs))
	for k := range msgs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Match resolves a requested locale to the closest loaded one.
func (c *Catalog) Match(locale string) language.Tag {
	want, err := language.Parse(locale)
	if err != nil {
		return c.tags[0]
	}
	_, idx, conf := c.matcher.Match(want)
	if conf == language.No {
		return c.tags[0]
	}
	return c.tags[idx]
}

// Printer returns a printer for the closest loaded locale.
func (c *Catalog) Printer(locale string) *message.Printer {
	return message.NewPrinter(c.Match(locale), message.Catalog(c.builder))
}
