package main

import "github.com/davitran/go-scrape-ttshop/cmd"

func main() {
	cmd.Execute()
}
