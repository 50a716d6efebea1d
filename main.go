package main

import "chat-client/internal/app"

func main() {
	app.Run()
}
