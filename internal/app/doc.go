// Package app contains the core application logic: the App struct, its
// configuration, and the run lifecycle from workflow file to printed report,
// decoupled from any specific entrypoint like a CLI or server.
package app
