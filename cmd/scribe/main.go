// Command scribe generates HTML documentation from source code comments.
package main

import "github.com/scribedocs/scribe/internal/cli"

func main() {
	cli.Execute()
}
