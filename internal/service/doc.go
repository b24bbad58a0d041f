// Package service implements the workspace directory operations: point
// lookup, validated substring search with per-result enrichment, and the
// fire-and-forget notification trigger.
//
// Every failure leaving this package is a *domain.ServiceError and has been
// logged exactly once, at the point where it was translated.
package service
