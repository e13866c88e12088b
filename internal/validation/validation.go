// Package validation binds request bodies and runs their Validate
// method. Failures become a 400 errs.HTTPError unless the payload
// answers them itself with an errs.ResponseError
package validation
