// Package cli implements the credkeeper command-line client.
//
// Usage:
//
//	credkeeper register -e <email> [-b]   create an account, optionally enrolling a biometric key
//	credkeeper login -e <email>           log in with email and password
//	credkeeper biometric                  log in with a biometric key
//	credkeeper me -t <token>              show the account behind an access token
//
// Passwords and biometric keys are read without echo when stdin is a
// terminal. On success the access token and user id are printed.
package cli
