// Package main provides the entry point of the green command. It stores
// application settings in a relational database through a generic
// repository and unit of work on top of gorm, and serves them through a
// JSON API built with fiber.
package main
