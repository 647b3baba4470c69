// Package mwapi provides a minimal, read-only MediaWiki Action API client.
//
// It focuses on one-shot metadata queries: a Client is built from a full api.php
// endpoint (New -> Get/SiteInfo), requests are plain GETs with MediaWiki style
// parameters, and SiteInfo fetches and strictly decodes the siteinfo payload.
package mwapi
