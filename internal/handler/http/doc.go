// Package http implements the REST API of the account service.
//
// Routes live under /api. Request tracing, access logging, response
// compression and per-IP throttling of the credential endpoints are handled
// here before requests are delegated to the service layer. Every error
// response has the body {"error": "<message>"}.
package http
