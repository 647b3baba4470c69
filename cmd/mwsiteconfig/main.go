// Command mwsiteconfig fetches the siteinfo of a MediaWiki site and prints the
// parse_wiki_text configuration for it.
//
//	mwsiteconfig [flags] <host>
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/moegirlwiki/mwsiteconfig/internal/config"
	"github.com/moegirlwiki/mwsiteconfig/internal/logger"
	"github.com/moegirlwiki/mwsiteconfig/mwapi"
	"github.com/moegirlwiki/mwsiteconfig/siteconfig"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(stderr, "Invalid use.")
		} else {
			fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		}
		return 1
	}
	logger.SetOutput(stderr)
	logger.SetLevel(cfg.LogLevel)

	format, err := siteconfig.ParseFormat(cfg.Format)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %v\n", err)
		return 1
	}

	endpoint, err := mwapi.EndpointForHost(cfg.Scheme, cfg.Host, cfg.APIPath)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid URL: %v\n", err)
		return 1
	}
	client, err := mwapi.NewClient(endpoint,
		mwapi.WithUserAgent(cfg.UserAgent),
		mwapi.WithTimeout(cfg.Timeout),
		mwapi.WithMaxBodySize(cfg.MaxBodySize),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid URL: %v\n", err)
		return 1
	}

	logger.Debugf("fetching siteinfo from %s", client.Endpoint())
	si, err := client.SiteInfo(ctx)
	if err != nil {
		reportFetchError(stderr, err)
		return 1
	}
	logSiteInfoWarnings(si.Warnings)
	logger.Debugf("siteinfo: %d extension tags, %d magic words, %d namespaces, %d protocols",
		len(si.ExtensionTags), len(si.MagicWords), len(si.Namespaces), len(si.Protocols))

	conf, err := siteconfig.Normalize(si)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid site configuration: %v\n", err)
		return 1
	}

	// Render fully before writing so a failure never leaves partial output.
	var buf bytes.Buffer
	if err := siteconfig.Write(&buf, format, conf); err != nil {
		fmt.Fprintf(stderr, "Failed to render configuration: %v\n", err)
		return 1
	}
	if err := writeOutput(cfg.Output, stdout, buf.Bytes()); err != nil {
		fmt.Fprintf(stderr, "Failed to write output: %v\n", err)
		return 1
	}
	logger.Infof("wrote %s configuration for %s", format, cfg.Host)
	return 0
}

func reportFetchError(stderr io.Writer, err error) {
	if e, ok := mwapi.IsResponseError(err); ok {
		switch e.Reason {
		case mwapi.ReasonContentType:
			fmt.Fprintf(stderr, "The value of the 'Content-Type' header of the response is not as expected. Status: %d, Content-Type: %q\n", e.HTTPStatus, e.ContentType)
		default:
			fmt.Fprintf(stderr, "The status of the response is not as expected. Status: %d, Content-Type: %q\n", e.HTTPStatus, e.ContentType)
		}
		return
	}
	if e, ok := mwapi.IsMediaWikiApiError(err); ok {
		fmt.Fprintf(stderr, "Failed to parse response: the wiki returned an API error: %v\n", e)
		return
	}
	if e, ok := mwapi.IsDecodeError(err); ok {
		fmt.Fprintf(stderr, "Failed to parse response: %v\n", e)
		return
	}
	fmt.Fprintf(stderr, "Request failed: %v\n", err)
}

func logSiteInfoWarnings(warnings map[string]any) {
	modules := make([]string, 0, len(warnings))
	for module := range warnings {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	for _, module := range modules {
		logger.Warnf("siteinfo warning from %s: %v", module, warnings[module])
	}
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
