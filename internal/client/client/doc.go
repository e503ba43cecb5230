// Package client contains the CLI's side of the CampusHire backend.
//
// # Overview
//
// The package provides:
//  1. The Client interface: account operations, the document store, the blob
//     store and Ping.
//  2. GRPCClient, which speaks the structpb-based gRPC service, injects the
//     access token via an interceptor, transparently refreshes expired tokens
//     and maps status codes back to the sentinel errors of package common.
//  3. Uploader, which pushes a local file to a presigned URL and reports
//     progress over a channel.
//  4. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database with embedded goose migrations.
//
// # Error Handling
//
// Errors whose text matches a sentinel of package common come back as that
// sentinel. Otherwise ErrUnavailable and ErrUnauthorized cover transport and
// auth failures.
package client
