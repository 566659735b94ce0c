// Package cli implements the judgments command-line interface.
//
// The cli package provides the Cobra-based commands (scrape, export, init,
// config and version), formats batch reports as text tables or JSON, and
// wires configuration into the scraper, worker, storage, export and
// notifier packages. Run returns the process exit code: 0 when every keyword
// succeeded, 2 when some failed, 1 on a fatal error.
package cli
