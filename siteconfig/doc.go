// Package siteconfig turns MediaWiki siteinfo into the static configuration a
// wiki-text parser is built with.
//
// Normalize checks the site against the conventions the parser depends on
// (delimited extension tags, a "#"-prefixed redirect magic word, a known link
// trail template, canonical File and Category namespaces) and returns sorted,
// duplicate-free lists. The Write* functions render the result as a Rust
// factory function for parse_wiki_text, or as JSON or YAML.
package siteconfig
