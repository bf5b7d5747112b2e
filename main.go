package main

import "github.com/atikulmunna/logview/internal/cmd"

func main() {
	cmd.Execute()
}
