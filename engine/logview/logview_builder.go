package logview

import "github.com/muesli/termenv"

// ViewBuilderOption is a functional option applied to a view during construction via NewView.
type ViewBuilderOption func(*view)

// WithClearScreen clears the terminal before each redraw so only the current feed is visible.
//
// Parameters:
//   - clear: true to clear before every redraw
//
// Returns:
//   - ViewBuilderOption: a function that applies the clear screen option to a view
func WithClearScreen(clear bool) ViewBuilderOption {
	return func(v *view) {
		v.clearScreen = clear
	}
}

// WithProfile forces the terminal color profile instead of detecting it from the writer.
//
// Parameters:
//   - p: the color profile, termenv.Ascii disables colors
//
// Returns:
//   - ViewBuilderOption: a function that applies the profile option to a view
func WithProfile(p termenv.Profile) ViewBuilderOption {
	return func(v *view) {
		v.out = termenv.NewOutput(v.w, termenv.WithProfile(p))
	}
}
