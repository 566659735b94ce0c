// Package worker runs keyword fetches on a bounded worker pool with per-host
// rate limiting, isolating each keyword's failure from the rest of the batch.
package worker
