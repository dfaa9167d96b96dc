// Package storage is the client's persistent key/value store, the local
// equivalent of a browser's persistent storage. Values are opaque byte
// slices kept in the SQLite "storage" table.
//
// A missing key is not an error: Get returns (nil, nil).
package storage
