// Command chat sends a single prompt to the configured generative
// backend using the same relay the API serves.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"todoapi.org/internal/chat"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <message>\n", os.Args[0])
		os.Exit(2)
	}
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if apiKey == "" {
		log.Fatal("GOOGLE_API_KEY environment variable is not set")
	}
	model := os.Getenv("TODO_CHAT_MODEL")
	if model == "" {
		model = "models/gemini-2.5-flash"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client := chat.NewClient(apiKey, model)
	reply, err := client.Ask(ctx, strings.Join(os.Args[1:], " "))
	if err != nil {
		log.Fatalf("ask: %v", err)
	}
	fmt.Println(reply)
}
