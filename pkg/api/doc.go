// Package api holds the request and resource types exchanged over HTTP by
// the campus projects API. The server and pkg/client share them.
package api
