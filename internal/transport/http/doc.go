// Package http exposes the dashboard's JSON API and file downloads.
// Handlers keep to the thin-controller pattern: parse the request,
// call a service, render the response.
package http
