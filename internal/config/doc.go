// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources. Higher layers override
// non-zero fields of lower ones:
//  1. Command-line flags
//  2. Environment variables (a .env file in the working directory is
//     loaded first and never overrides variables already set)
//  3. JSON config file
//  4. Built-in defaults ([Defaults])
//
// The main entry points are [GetStructuredConfig] for the server and
// [GetClientConfig] for the command-line client.
package config
