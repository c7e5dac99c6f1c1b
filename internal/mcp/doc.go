// Package mcp implements the Model Context Protocol (MCP) server for gobangs.
//
// The server exposes the bang catalog to MCP clients:
//   - search_bangs: find bangs by substring, ranked like the launcher
//   - resolve_bang: expand a bang query into the URLs it would open
//   - get_status: catalog size and stored databases
//   - reload_catalog: re-read every database (only when reloading is wired)
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// stdout carries the protocol, so logs go to stderr.
//
// # Basic Usage
//
//	gobangs mcp
//
// # Tool: search_bangs
//
//	Request:
//	{
//	  "name": "search_bangs",
//	  "arguments": {"query": "wiki", "limit": 3}
//	}
//
//	Response:
//	{
//	  "query": "wiki",
//	  "results": [
//	    {"trigger": "w", "name": "Wikipedia", "domain": "en.wikipedia.org", "relevance": 8, "url": "..."}
//	  ],
//	  "total_results": 1
//	}
//
// # Tool: resolve_bang
//
//	Request:
//	{
//	  "name": "resolve_bang",
//	  "arguments": {"query": "!g,w golang generics"}
//	}
//
//	Response:
//	{
//	  "query": "!g,w golang generics",
//	  "free_text": "golang generics",
//	  "targets": [
//	    {"trigger": "g", "url": "https://www.google.com/search?q=golang%20generics"},
//	    {"trigger": "w", "url": "https://en.wikipedia.org/wiki/Special:Search?search=golang%20generics"}
//	  ]
//	}
//
// # Error Codes
//
//	-32602  Invalid method parameters
//	-32603  Internal error
//	-32002  Reload already in progress
//	-32003  Query names no known bang
//	-32004  Empty query
package mcp
