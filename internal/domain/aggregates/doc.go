// Package aggregates declares the write boundaries of the shop domain: the
// aggregate contracts, their input and result types, and the coded Error every
// implementation returns for non-business failures.
package aggregates
