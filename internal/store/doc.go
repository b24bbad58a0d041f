// Package store defines the read-only persistence contract of the workspace
// directory. Implementations live under internal/platform and must bind every
// caller-supplied value as a query parameter.
package store
