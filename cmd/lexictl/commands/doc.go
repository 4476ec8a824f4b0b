// Package commands defines the lexictl CLI, a terminal front end for the
// dictionary API.
//
// Commands
//
//   - define    Look up a word or phrase (--mock for sample data)
//   - joke      Generate a joke from a prompt
//   - caption   Generate a caption from a description
//   - health    Check the API status
//   - signin    Sign in and store the session under the home dir
//   - signout   Revoke and forget the stored session
//   - whoami    Show the signed-in account
//
// # Implementation
//
// The root command loads the API settings and builds one API client before
// any subcommand runs. The stored session supplies the bearer token; a 401
// from the API deletes it and asks the user to sign in again.
package commands
