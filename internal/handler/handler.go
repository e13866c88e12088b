// Package handler is the HTTP layer that sits right after the router.
//
// Handlers bind request bodies, run the validation package on them and
// call the service layer. They never talk to the database directly.
package handler
