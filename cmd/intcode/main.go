package main

import (
	"go.brendoncarroll.net/star"

	"myceliumweb.org/intcode/iccmd"
)

func main() {
	star.Main(iccmd.Root())
}
