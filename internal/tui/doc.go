// Package tui renders the choose-person screen in a terminal.
//
// The bubbletea program loop is the UI goroutine: background completions from
// the screen controller are delivered to it as messages and run inside Update.
package tui
