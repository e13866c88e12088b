// Package sqlerr classifies PostgreSQL errors.
//
// SQLSTATE codes reported through pgconn are mapped onto a small set of
// categories used as metric labels, and each server error is described
// for the operator log: entity, action and the offending column (a not
// null violation on websites.website_url reads "The Website Url is required")
package sqlerr
