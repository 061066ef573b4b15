package main

import "github.com/mabhi256/mapverify/cmd"

func main() {
	cmd.Execute()
}
