package models

// Cursor is the plot cell the user is pointing at
type Cursor struct {
	Col int
	Row int
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Messages    []Message // Notices received from core
	Config      RunConfig // Last config snapshot pushed by core
	Mode        Mode      // Current initialization mode
	Frame       Frame     // Last rasterised plot
	Cursor      Cursor    // Plot cursor
	Status      string    // Status bar text
	Loading     bool      // A command is in flight
	LoadingDots int       // Animation counter for loading dots
	Width       int       // Terminal width
	Height      int       // Terminal height
	ServerURL   string    // Service the session talks to
}
