package main

import "github.com/moyu-x/classified-records/cmd"

func main() {
	cmd.Execute()
}
