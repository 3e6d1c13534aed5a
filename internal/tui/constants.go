package tui

// UI Layout Constants
// These constants define spacing and dimensions for the dialog layout

const (
	// Borders
	DialogBorderWidth = 2 // Columns consumed by the rounded border (left + right)

	// Smallest terminal the dialog renders into; below this a notice is shown
	MinTerminalCols = 24
	MinTerminalRows = 8

	// Input Dimensions
	InputCharLimit   = 256 // Max characters per field
	InputMinWidth    = 8   // Narrowest text input
	InputPromptWidth = 2   // "> " prompt before each input

	// Full screen dialogs keep one column of breathing room on each side
	FullScreenPaddingCols = 1
)
