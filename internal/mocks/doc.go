// Package mocks provides shared testify mocks for the store interfaces and
// the JWT service, so service, middleware and job tests do not each define
// their own.
//
// Store mocks return themselves from WithTx, so expectations set on a mock
// also apply inside transactions.
package mocks
