package main

import "tour-admin/cmd"

func main() {
	cmd.Execute()
}
