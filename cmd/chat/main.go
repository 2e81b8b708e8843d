package main

import (
	"os"

	"lingo-backend/cmd/chat/chatcmder"
)

func main() {
	if err := chatcmder.NewChatCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
