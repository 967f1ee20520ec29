package main

import "github.com/registre/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
