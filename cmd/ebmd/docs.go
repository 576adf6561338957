package main

// General API documentation for swaggo. Run `swag init -g cmd/ebmd/docs.go` to regenerate.
//
// @title           TalkToEBM API
// @version         1.0
// @description     REST API that explains Explainable Boosting Machine models through LLMs.
//
// @contact.name   TalkToEBM maintainers
// @contact.url    https://github.com/rodrigocostacamargos/TalkToEBM
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
