package main

import "github.com/Leganyst/timeslot-allocator/internal/cli"

func main() {
	cli.Execute()
}
