// Package registry provides the central "glue" between backend names used in
// configuration (e.g. "ollama") and the compiled Go providers that implement
// them.
//
// During application startup the registry is populated by each provider
// module and then queried once to build the Invoker for the run. Duplicate
// registrations are a programmer error and panic at startup, never at
// execution time.
package registry
