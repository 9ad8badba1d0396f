// Package id generates URL-safe record identifiers.
//
// Identifiers are UUIDv4 bytes encoded as lowercase base32 (RFC 4648) without
// padding, so every id is 26 characters and safe in URLs and query strings.
package id
