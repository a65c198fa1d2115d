package internal

type uiTheme struct {
	PrimaryColor   string
	SecondaryColor string
	ErrorColor     string
	TertiaryColor  string
	SuccessColor   string
}

var Theme = uiTheme{
	PrimaryColor:   "75",      // Brighter blue
	SecondaryColor: "#ccc",    // Light gray
	ErrorColor:     "#FF5F5F", // Red
	TertiaryColor:  "#666666", // Dim gray for hints
	SuccessColor:   "#5FD787",
}

// ProgressGradient is used by the transfer progress bar.
var ProgressGradient = [2]string{"#5956e0", "#e86ef6"}
