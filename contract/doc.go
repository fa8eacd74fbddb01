// Package contract holds hand-maintained Go bindings for the deployed
// Drips protocol contracts, trimmed to the methods this library uses.
// Method names, argument order and tuple shapes must match the deployed
// ABI exactly; a mismatch is a fatal integration error, not something the
// client can recover from.
package contract
