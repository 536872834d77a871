package main

// General API documentation for swaggo. Run `swag init -g cmd/altd/docs.go -o docs` to regenerate.
//
// @title           altd API
// @version         1.0
// @description     HTTP API that generates alt text for uploaded images.
//
// @contact.name   altd maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
