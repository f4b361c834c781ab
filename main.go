package main

import (
	"fmt"
	"os"

	"github.com/gohtml5/parser/html5"
)

func main() {
	out, err := html5.Parse([]byte("<html><head></head><body>Hello, world!</body></html>"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse failed:", err)
		os.Exit(1)
	}
	defer out.Destroy()

	for _, d := range out.Diagnostics {
		fmt.Printf("diagnostic kind %d at %d:%d\n", d.Kind, d.Position.Line, d.Position.Column)
	}
	fmt.Println(out.Root.TagName())
}
