// Package cli provides the interactive zkpauth command-line client.
//
// It wires configuration, the gRPC client and the authentication driver
// into a small REPL: register, login, whoami, ping and exit. Passwords are
// read from the terminal without echo and wiped after use.
package cli
