// Package pipeline owns the two-stage fetch flow: resolve the account
// identity, then fetch its activity feed. Each stage follows the same
// pattern of loading the cached envelope, attempting a conditional fetch
// with its revalidation tag, reconciling the outcome, then persisting or
// evicting.
// Decisive HTTP failures evict and surface a stage error; transport
// failures degrade to the cached payload when one exists. All remote
// and parsing errors are converted to the package's error kinds at the
// stage boundary; nothing lower-level crosses into callers.
package pipeline
