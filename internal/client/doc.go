// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the command-line client for the user-account
// API.
//
// A run executes one command, named by the first positional argument, and
// prints the server's answer to the configured writer.
package client
