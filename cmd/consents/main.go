package main

import cmd "github.com/rohmanhakim/consents/internal/cli"

func main() {
	cmd.Execute()
}
