package main

// General API documentation for swaggo. Generate the docs package with
// `swag init -g cmd/llamactl/docs.go -o docs` before building -tags=swagger.
//
// @title           llamactl discovery API
// @version         1.0
// @description     Read-only HTTP API over tracked llama-server state, captured run info and run history.
//
// @contact.name   llamactl maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
