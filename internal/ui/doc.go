// Package ui implements an interactive terminal browser for list pages using
// bubbletea's Elm architecture.
//
// The model shows one registered list at a time and pages through it with the
// same session manager the CLI uses. Tab cycles between lists, enter loads
// the next page, r resets the current session.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, tab, r, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
