// Package templates holds the templ components that render the dashboard
// pages. The *_templ.go files are generated from the .templ sources.
package templates

//go:generate templ generate
