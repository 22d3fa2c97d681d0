package main

import "inventory-recon/cmd"

func main() {
	cmd.Execute()
}
