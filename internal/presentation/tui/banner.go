package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the reactless banner and version to w.
func PrintBanner(w io.Writer, profile termenv.Profile, version string) {
	lines := []struct {
		text  string
		color string
	}{
		{`                     _   _               `, "#818cf8"},
		{` _ __ ___  __ _  ___| |_| | ___  ___ ___ `, "#a78bfa"},
		{`| '__/ _ \/ _' |/ __| __| |/ _ \/ __/ __|`, "#c084fc"},
		{`| | |  __/ (_| | (__| |_| |  __/\__ \__ \`, "#e879f9"},
		{`|_|  \___|\__,_|\___|\__|_|\___||___/___/`, "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, profile.String(l.text).Foreground(profile.Color(l.color)))
	}
	fmt.Fprintln(w, profile.String("  v"+version).Foreground(profile.Color("#fb7185")).Faint())
	fmt.Fprintln(w)
}
