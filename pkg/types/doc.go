// Package types provides shared type definitions for gobangs.
//
// # Core Types
//
// Bang represents one shortcut from a bangs database. The field set follows
// DuckDuckGo's bang.js records:
//
//	bang := &types.Bang{
//	    Trigger:     "g",
//	    Name:        "Google",
//	    Domain:      "www.google.com",
//	    URL:         "https://www.google.com/search?q={{{s}}}",
//	    Category:    "Online Services",
//	    Subcategory: "Search",
//	    Relevance:   10,
//	}
//
// The URL is a template; Expand replaces every Placeholder with the
// already escaped search text:
//
//	bang.Expand("hello%20world")
//	// https://www.google.com/search?q=hello%20world
//
// # Ordering
//
// Less defines catalog order: descending Relevance, then reverse
// lexicographic order of Trigger, Name, Domain, Category, Subcategory and URL.
// Callers sort with sort.SliceStable so records that compare equal keep their
// arrival order.
//
// # Validation
//
//	if err := bang.Validate(); err != nil {
//	    // skip the record
//	}
package types
