// Package service holds the partner use-cases.
//
// It sits between the handler and repository layers: it calls the
// store, records metrics, logs failures with their SQLSTATE and decides
// what the client gets to see
package service
