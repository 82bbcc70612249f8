package main

import "github.com/nahguam/kafkacli/cmd"

func main() {
	cmd.Execute()
}
