// Package repository owns the SQL of the service.
//
// Writes run in one explicit transaction per request and reads run in
// one read-only snapshot, both through database.WithTx
package repository
