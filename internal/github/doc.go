// Package github implements the conditional REST client for the GitHub
// API and the identity resolver that decides whether an account name is
// an organization or a user. The client classifies every response into an
// explicit three-way outcome (Fresh / NotModified / Failure) derived from
// the transport status code, attaches the identification headers required
// by the API and, when a previous entity tag is known, issues conditional
// requests so the server can answer 304 without re-sending the body.
package github
