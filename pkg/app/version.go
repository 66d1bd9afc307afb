package app

// Version returns the current version of the tool.
func Version() string { return "0.3.0" }
