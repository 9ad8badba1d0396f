// Package sqlite persists dev backend records in a single SQLite file.
//
// Lists are returned in insertion order, which is the order the client
// displays them in.
package sqlite
