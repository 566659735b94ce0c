package main

import "github.com/lexwatch/judgment-scraper/internal/cli"

func main() {
	cli.Execute()
}
