// Package domain contains the core entities of the workspace directory: the
// Record a caller receives, the SearchRequest it sends, and the ServiceError
// taxonomy every public operation reports failures with. It has no knowledge
// of storage or transport.
package domain
