package main

import "github.com/kamal-hamza/assetwatch/cmd"

func main() {
	cmd.Execute()
}
