package main

import "github.com/bodycomp-io/bodycomp-api/cmd/ingest/cmd"

func main() {
	cmd.Execute()
}
