package siteconfig

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/moegirlwiki/mwsiteconfig/mwapi"
)

const (
	FileNamespaceID     = 6
	CategoryNamespaceID = 14

	redirectMagicWord = "redirect"
)

// Configuration mirrors parse_wiki_text::ConfigurationSource. Every list is
// sorted and free of duplicates; LinkTrail is sorted by code point.
type Configuration struct {
	CategoryNamespaces []string `json:"category_namespaces" yaml:"category_namespaces"`
	ExtensionTags      []string `json:"extension_tags" yaml:"extension_tags"`
	FileNamespaces     []string `json:"file_namespaces" yaml:"file_namespaces"`
	LinkTrail          string   `json:"link_trail" yaml:"link_trail"`
	MagicWords         []string `json:"magic_words" yaml:"magic_words"`
	Protocols          []string `json:"protocols" yaml:"protocols"`
	RedirectMagicWords []string `json:"redirect_magic_words" yaml:"redirect_magic_words"`
}

// Normalize validates si and builds the parser configuration from it.
// It never modifies si.
func Normalize(si *mwapi.SiteInfo) (*Configuration, error) {
	if si == nil {
		return nil, errors.New("siteconfig: nil site info")
	}
	lower := cases.Lower(language.Und)

	extensionTags, err := normalizeExtensionTags(si.ExtensionTags)
	if err != nil {
		return nil, err
	}
	linkTrail, err := ParseLinkTrail(si.General.LinkTrail)
	if err != nil {
		return nil, err
	}
	magicWords, redirectMagicWords, err := normalizeMagicWords(si.MagicWords, lower)
	if err != nil {
		return nil, err
	}

	fileNamespaces, categoryNamespaces := newUniqueList(), newUniqueList()
	for _, item := range si.NamespaceAliases {
		var list *uniqueList
		switch item.ID {
		case FileNamespaceID:
			list = fileNamespaces
		case CategoryNamespaceID:
			list = categoryNamespaces
		default:
			continue
		}
		alias := lower.String(item.Alias)
		if !list.add(alias) {
			return nil, invalid(ErrDuplicateNamespaceAlias, alias)
		}
	}
	if err := addNamespace(fileNamespaces, si.Namespaces, FileNamespaceID, lower); err != nil {
		return nil, err
	}
	if err := addNamespace(categoryNamespaces, si.Namespaces, CategoryNamespaceID, lower); err != nil {
		return nil, err
	}

	protocols := slices.Clone(si.Protocols)
	if protocols == nil {
		protocols = []string{}
	}
	slices.Sort(protocols)
	for i := 1; i < len(protocols); i++ {
		if protocols[i-1] == protocols[i] {
			return nil, invalid(ErrDuplicateProtocol, protocols[i])
		}
	}

	return &Configuration{
		CategoryNamespaces: categoryNamespaces.sorted(),
		ExtensionTags:      extensionTags.sorted(),
		FileNamespaces:     fileNamespaces.sorted(),
		LinkTrail:          linkTrail,
		MagicWords:         magicWords.sorted(),
		Protocols:          protocols,
		RedirectMagicWords: redirectMagicWords.sorted(),
	}, nil
}

// normalizeExtensionTags strips the angle brackets from tags like "<pre>".
func normalizeExtensionTags(tags []string) (*uniqueList, error) {
	out := newUniqueList()
	for _, tag := range tags {
		name, ok := strings.CutPrefix(tag, "<")
		if ok {
			name, ok = strings.CutSuffix(name, ">")
		}
		if !ok || !isASCIILower(name) {
			return nil, invalid(ErrExtensionTag, tag)
		}
		if !out.add(name) {
			return nil, invalid(ErrDuplicateExtensionTag, tag)
		}
	}
	return out, nil
}

func isASCIILower(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// normalizeMagicWords collects the behavior switches (aliases written as
// "__NAME__") and the aliases of the redirect magic word without their "#".
// Other magic words are parser functions or variables and are skipped.
//
// Redirects match case-insensitively, so their aliases are lowercased; two
// aliases differing only in case collapse into one.
func normalizeMagicWords(words []mwapi.MagicWord, lower cases.Caser) (switches, redirect *uniqueList, err error) {
	switches = newUniqueList()
	for _, word := range words {
		if word.Name == redirectMagicWord {
			if redirect != nil {
				return nil, nil, invalid(ErrDuplicateMagicWord, word.Name)
			}
			redirect = newUniqueList()
			stripped := newUniqueList()
			for _, alias := range word.Aliases {
				name, ok := strings.CutPrefix(alias, "#")
				if !ok {
					return nil, nil, invalid(ErrRedirectAlias, alias)
				}
				if !stripped.add(name) {
					return nil, nil, invalid(ErrDuplicateRedirectAlias, alias)
				}
				redirect.add(lower.String(name))
			}
			continue
		}
		for _, alias := range word.Aliases {
			if !strings.HasPrefix(alias, "__") || !strings.HasSuffix(alias, "__") {
				continue
			}
			// "__", "___" and "____" all leave nothing once unwrapped.
			if len(alias) <= 4 {
				return nil, nil, invalid(ErrMagicWordAlias, alias)
			}
			if name := alias[2 : len(alias)-2]; !switches.add(name) {
				return nil, nil, invalid(ErrDuplicateMagicWord, alias)
			}
		}
	}
	if redirect == nil {
		return nil, nil, invalid(ErrRedirectMissing, "")
	}
	return switches, redirect, nil
}

// addNamespace adds the localized and canonical names of namespace id to
// list, canonical first when the two differ.
func addNamespace(list *uniqueList, namespaces map[string]mwapi.Namespace, id int, lower cases.Caser) error {
	key := strconv.Itoa(id)
	ns, ok := namespaces[key]
	if !ok {
		return invalid(ErrNamespaceMissing, key)
	}
	if ns.ID != id {
		return invalid(ErrNamespaceID, key)
	}
	alias := lower.String(ns.Alias)
	if list.has(alias) {
		return invalid(ErrDuplicateNamespaceAlias, alias)
	}
	if ns.Canonical == nil {
		return invalid(ErrCanonicalMissing, key)
	}
	if canonical := lower.String(*ns.Canonical); canonical != alias {
		if !list.add(canonical) {
			return invalid(ErrDuplicateNamespaceAlias, canonical)
		}
	}
	list.add(alias)
	return nil
}

// uniqueList keeps insertion order and rejects repeats.
type uniqueList struct {
	items []string
	seen  map[string]struct{}
}

func newUniqueList() *uniqueList {
	return &uniqueList{items: []string{}, seen: map[string]struct{}{}}
}

func (l *uniqueList) has(s string) bool {
	_, ok := l.seen[s]
	return ok
}

func (l *uniqueList) add(s string) bool {
	if l.has(s) {
		return false
	}
	l.seen[s] = struct{}{}
	l.items = append(l.items, s)
	return true
}

func (l *uniqueList) sorted() []string {
	out := slices.Clone(l.items)
	slices.Sort(out)
	return out
}
