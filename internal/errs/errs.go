// Package errs defines the errors handlers return to the client.
//
// HTTPError is the default JSON shape with a machine code, a message
// and optional field errors. ResponseError carries a body that must be
// written exactly as given, such as the fixed failure bodies of the
// partner endpoints.
package errs
