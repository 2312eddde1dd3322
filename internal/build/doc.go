// Package build runs a complete site build.
//
// A Builder moves through a fixed sequence of stages (see Stage): it checks
// its inputs, prepares the output directory, renders every discovered
// document through the page pipeline and finally writes the SEO artifacts.
// Per-document and per-artifact failures are counted in the Report and the
// build carries on; setup failures abort it. Observers receive a callback for
// each stage change, page, artifact and for completion, which is how logging,
// metrics, build history and notifications hook in.
package build
