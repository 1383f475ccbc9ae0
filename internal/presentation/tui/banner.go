package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the vessel ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// red to violet
	lines := []struct{ text, color string }{
		{` __   __                   _ `, "#f87171"},
		{` \ \ / /__ ___ ___ ___ ___| |`, "#fb7185"},
		{`  \ V / -_|_-<(_-</ -_) -_) |`, "#f472b6"},
		{`   \_/\___/__//__/\___\___|_|`, "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
