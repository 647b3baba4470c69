package mwapi

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/gjson"
)

// SiteInfoContentType is the only Content-Type SiteInfo accepts.
const SiteInfoContentType = "application/json; charset=utf-8"

// SiteInfoProps are the siteinfo properties SiteInfo asks for.
var SiteInfoProps = []string{
	"extensiontags",
	"general",
	"magicwords",
	"namespaces",
	"namespacealiases",
	"protocols",
}

type SiteInfoParams struct {
	Action string   `url:"action"`
	Format string   `url:"format"`
	Meta   string   `url:"meta"`
	Props  []string `url:"siprop"`
}

// SiteInfo is the query part of a format version 1 siteinfo response.
type SiteInfo struct {
	ExtensionTags    []string             `json:"extensiontags"`
	General          General              `json:"general"`
	MagicWords       []MagicWord          `json:"magicwords"`
	NamespaceAliases []NamespaceAlias     `json:"namespacealiases"`
	Namespaces       map[string]Namespace `json:"namespaces"`
	Protocols        []string             `json:"protocols"`

	// Warnings carries the response's "warnings" object, keyed by module.
	// The request still succeeded when it is non-empty.
	Warnings map[string]any `json:"-"`
}

type General struct {
	LinkTrail string `json:"linktrail"`
}

type MagicWord struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases"`
}

type Namespace struct {
	Alias     string  `json:"*"`
	Canonical *string `json:"canonical"`
	ID        int     `json:"id"`
}

type NamespaceAlias struct {
	ID    int    `json:"id"`
	Alias string `json:"*"`
}

//go:embed siteinfo.schema.json
var siteInfoSchemaJSON []byte

var siteInfoSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return compileSiteInfoSchema(siteInfoSchemaJSON)
})

func compileSiteInfoSchema(src []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("siteinfo.schema.json", bytes.NewReader(src)); err != nil {
		return nil, err
	}
	return compiler.Compile("siteinfo.schema.json")
}

// SiteInfo fetches the siteinfo properties listed in SiteInfoProps with a
// single GET. Concurrent calls on one Client share the in-flight request.
// The returned value is shared between those callers and must not be mutated.
func (c *Client) SiteInfo(ctx context.Context) (*SiteInfo, error) {
	v, err, _ := c.sf.Do("siteinfo", func() (any, error) {
		return c.fetchSiteInfo(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SiteInfo), nil
}

func (c *Client) fetchSiteInfo(ctx context.Context) (*SiteInfo, error) {
	resp, err := c.Get(ctx, SiteInfoParams{
		Action: "query",
		Format: "json",
		Meta:   "siteinfo",
		Props:  SiteInfoProps,
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{
			Reason:      ReasonStatus,
			HTTPStatus:  resp.StatusCode,
			ContentType: resp.ContentType(),
			Response:    resp,
		}
	}
	if ct := resp.ContentType(); ct != SiteInfoContentType {
		return nil, &ResponseError{
			Reason:      ReasonContentType,
			HTTPStatus:  resp.StatusCode,
			ContentType: ct,
			Response:    resp,
		}
	}

	return decodeSiteInfo(resp, siteInfoSchema)
}

func decodeSiteInfo(resp *Response, schemaFn func() (*jsonschema.Schema, error)) (*SiteInfo, error) {
	if !gjson.ValidBytes(resp.Raw) {
		return nil, &DecodeError{Err: errors.New("response body is not valid JSON")}
	}
	if apiErr := responseApiError(resp); apiErr != nil {
		return nil, apiErr
	}

	schema, err := schemaFn()
	if err != nil {
		return nil, &DecodeError{Err: fmt.Errorf("compile siteinfo schema: %w", err)}
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &DecodeError{Err: err}
	}

	var out struct {
		Query SiteInfo `json:"query"`
	}
	if err := resp.Into(&out); err != nil {
		return nil, &DecodeError{Err: err}
	}
	out.Query.Warnings = resp.Warnings
	return &out.Query, nil
}
