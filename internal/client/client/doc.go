// Package client is the transport layer of the zkpauth client: it speaks
// the zkp_auth.Auth gRPC service and translates status codes into the
// shared error taxonomy.
package client
