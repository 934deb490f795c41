// Package menu drives the interactive GitHub toolkit loop.
//
// The service renders a numbered menu of registered tools plus the pull
// request review entry, prompts for each tool argument in order, and prints
// tool output between fixed markers with JSON payloads pretty-printed. A
// non-interactive entry point dispatches a single tool from key=value
// argument pairs through the same validation path.
package menu
