package main

import "github.com/iksnae/consent-session/cmd"

func main() {
	cmd.Execute()
}
