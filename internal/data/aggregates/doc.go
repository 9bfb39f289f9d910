// Package aggregates implements the domain aggregate contracts on top of the
// table repos in internal/data/repos.
//
// Each write runs inside one TxRunner transaction, is traced and reported to
// Hooks, and leaves through MapError.
package aggregates
