// Command swagdoc serves the catalog API together with its Swagger 2.0
// document and Swagger UI, or writes the document to a file.
package main

import (
	"github.com/alecthomas/kong"
)

type CLI struct {
	Serve    ServeCmd    `cmd:"" default:"1" help:"Serve the API, its Swagger documents and Swagger UI."`
	Generate GenerateCmd `cmd:"" help:"Write a Swagger document."`
	Version  VersionCmd  `cmd:"" help:"Print version information."`
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("swagdoc"),
		kong.Description("Swagger 2.0 documents generated from the registered API actions."),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
