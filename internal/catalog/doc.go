// Package catalog holds the ranked bang collection every search runs against.
//
// A Catalog is built once from raw records and never patched afterwards; a
// reload builds a new one. Records are validated, merged by trigger (the last
// occurrence wins), sorted by descending relevance and optionally deduplicated
// by URL template.
//
// # Sources
//
// Records come from one or more Sources:
//
//	cat, err := catalog.LoadSources(ctx, []catalog.Source{
//	    catalog.StoreSource{Store: store, Source: "default"},
//	    catalog.FileSource{Path: "/usr/lib/pop-launcher/plugins/bangs/db.json"},
//	    catalog.FileSource{Path: "~/.local/share/pop-launcher/plugins/bangs/db.json"},
//	}, catalog.Options{DedupByURL: true}, logger)
//
// Sources are read concurrently but merged in the order given, so user
// databases listed last override system ones.
//
// # Record Format
//
// DecodeRecords accepts DuckDuckGo's bang.js layout (t, s, u, d, r, c, sc) as
// well as the long names (trigger, name, url, domain, relevance, category,
// subcategory). Each element is checked against a JSON schema; elements that
// fail are reported as Warnings and skipped without failing the document.
package catalog
