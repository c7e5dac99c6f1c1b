// Package fetcher downloads bang databases and installs them as catalog
// files and store sources.
//
// Downloads are retried with exponential backoff. Client errors other than
// 429 are not retried. A document is decoded and validated before anything
// is written, so a broken download never replaces a working database.
package fetcher
