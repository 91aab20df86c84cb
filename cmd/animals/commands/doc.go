// Package commands defines the animals CLI.
//
// The root command builds the logger, a worker pool and the UI loop, launches the animals screen
// on a host, waits for the subscription to finish (or for --teardown-after to elapse) and then
// destroys the screen and closes both schedulers.
package commands
