package siteconfig

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatRust Format = "rust"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatRust:
		return FormatRust, nil
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %q", s)
	}
}

// Write renders cfg in the given format.
func Write(w io.Writer, format Format, cfg *Configuration) error {
	switch format {
	case FormatRust, "":
		return WriteRust(w, cfg)
	case FormatJSON:
		return WriteJSON(w, cfg)
	case FormatYAML:
		return WriteYAML(w, cfg)
	default:
		return fmt.Errorf("unsupported output format: %q", format)
	}
}

// WriteRust writes a create_configuration function that builds a
// parse_wiki_text::Configuration from cfg.
func WriteRust(w io.Writer, cfg *Configuration) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("pub fn create_configuration() -> ::parse_wiki_text::Configuration {\n")
	bw.WriteString("    ::parse_wiki_text::create_configuration(&::parse_wiki_text::ConfigurationSource {\n")
	writeRustField(bw, "category_namespaces", rustSlice(cfg.CategoryNamespaces))
	writeRustField(bw, "extension_tags", rustSlice(cfg.ExtensionTags))
	writeRustField(bw, "file_namespaces", rustSlice(cfg.FileNamespaces))
	writeRustField(bw, "link_trail", rustString(cfg.LinkTrail))
	writeRustField(bw, "magic_words", rustSlice(cfg.MagicWords))
	writeRustField(bw, "protocols", rustSlice(cfg.Protocols))
	writeRustField(bw, "redirect_magic_words", rustSlice(cfg.RedirectMagicWords))
	bw.WriteString("    })\n")
	bw.WriteString("}\n")
	return bw.Flush()
}

func writeRustField(w *bufio.Writer, name, value string) {
	fmt.Fprintf(w, "        %s: %s,\n", name, value)
}

func rustSlice(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = rustString(item)
	}
	return "&[" + strings.Join(quoted, ", ") + "]"
}

// rustString quotes s as a Rust string literal the way Rust's Debug does.
// Combining marks are escaped wherever they appear so they never attach to
// the opening quote or to a neighbouring character in the source.
func rustString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			if unicode.IsPrint(r) && !unicode.In(r, unicode.Mn, unicode.Me) {
				b.WriteRune(r)
			} else {
				fmt.Fprintf(&b, `\u{%x}`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func WriteJSON(w io.Writer, cfg *Configuration) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}

func WriteYAML(w io.Writer, cfg *Configuration) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return err
	}
	return enc.Close()
}
