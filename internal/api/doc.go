// Package api implements the HTTP handlers for the workspace directory:
// point lookup, search, and the notification trigger. Handlers translate
// between the JSON wire format and the service layer, and render service
// errors according to an ErrorPolicy.
package api
