// Package service contains the business logic.
//
// It sits between the handler and repository layers. It receives
// validated input from the handler, applies the lookup policy, and calls
// repository methods to interact with the data
package service
