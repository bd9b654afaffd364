// catchat is a terminal client for the fat cat: it keeps the conversation
// window in a local file and prints avatar state changes as they happen.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fatcat-backend/internal/client"
	"fatcat-backend/internal/history"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "fat cat backend URL")
	historyPath := flag.String("history", "", "history file (default ~/.fatcat/history.json)")
	windowSize := flag.Int("window", 10, "history window size")
	flag.Parse()

	path := *historyPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("cannot resolve home directory: %v", err)
		}
		path = filepath.Join(home, ".fatcat", "history.json")
	}

	orch := client.New(*server, *windowSize, history.NewFileStore(path),
		client.WithStateListener(func(s client.AvatarState) {
			fmt.Printf("  [cat is %s]\n", s)
		}))

	for _, turn := range orch.History() {
		who := "you"
		if turn.Role == "assistant" {
			who = "lolo"
		}
		fmt.Printf("%s> %s\n", who, turn.Content)
	}

	fmt.Println("Talk to Lolo (ctrl-d to quit).")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		reply, err := orch.SendText(ctx, text)
		cancel()
		if err != nil {
			fmt.Printf("lolo> %s (%v)\n", client.FallbackBubble, err)
			continue
		}
		fmt.Printf("lolo> %s\n", reply)
	}
	fmt.Println()
}
