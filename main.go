package main

import "jsonflake/cmd"

func main() {
	cmd.Execute()
}
