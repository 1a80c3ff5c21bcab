package main

import "leopay/internal/app/server"

func main() {
	server.Run()
}
