// package ui implements the interactive catalogue browser built with
// [bubbletea]. It lists the loaded songs, previews the key plan for a
// selection, and can hand the plan to the input backend after confirmation.
package ui
