package main

import (
	"kidung-scraper/cmd/kidung/cmd"
)

func main() {
	cmd.Execute()
}
