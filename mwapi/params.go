package mwapi

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/google/go-querystring/query"
)

// normalizeParams flattens a map[string]any or a struct tagged for
// go-querystring into url.Values. Multi-valued fields are joined with "|",
// which is how MediaWiki expects lists.
func normalizeParams(p any) (url.Values, error) {
	values := url.Values{}

	switch v := p.(type) {
	case nil:
		// nothing
	case map[string]any:
		for k, val := range v {
			if err := addAny(values, k, val); err != nil {
				return nil, err
			}
		}
	default:
		rv := reflect.ValueOf(p)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				break
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, fmt.Errorf("unsupported params type: %T", p)
		}
		encoded, err := query.Values(p)
		if err != nil {
			return nil, err
		}
		for k, vs := range encoded {
			if len(vs) == 0 {
				continue
			}
			values.Set(k, strings.Join(vs, "|"))
		}
	}

	// No formatversion default: callers that rely on the legacy "*" keys
	// (siteinfo does) need format version 1.
	setDefaultIfMissing(values, "action", "query")
	setDefaultIfMissing(values, "format", "json")

	return values, nil
}

func setDefaultIfMissing(v url.Values, key, value string) {
	if v.Get(key) == "" {
		v.Set(key, value)
	}
}

// addAny sets one map entry. False booleans are omitted since MediaWiki
// treats any present flag as true.
func addAny(values url.Values, key string, val any) error {
	switch x := val.(type) {
	case nil:
	case string:
		values.Set(key, x)
	case bool:
		if x {
			values.Set(key, "1")
		}
	case []string:
		if len(x) > 0 {
			values.Set(key, strings.Join(x, "|"))
		}
	default:
		return fmt.Errorf("unsupported value for parameter %q: %T", key, val)
	}
	return nil
}
