// Package host stands in for the UI framework a screen lives in. It owns the UI loop, drives a
// screen through its lifecycle by calling OnCreate and OnDestroy on that loop, and publishes every
// lifecycle transition to whoever is watching.
package host
