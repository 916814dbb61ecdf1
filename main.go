package main

import "github.com/frahmantamala/sakti/cmd"

func main() {
	cmd.Execute()
}
