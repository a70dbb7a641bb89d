// Package preview serves a live view of a dashboard document to browsers
// and other tools on the local network.
//
// A Hub subscribes to a dashboard.Store and pushes one JSON Message per
// committed transaction to every websocket client. Each message carries the
// full document, so a batch of writes (for example applying a theme to all
// cards) reaches clients as a single update. New clients first receive a
// snapshot message.
//
// Server wraps the hub in an HTTP server and can announce itself over mDNS
// as an "_http._tcp" service with the TXT record "app=dashpanel".
package preview
