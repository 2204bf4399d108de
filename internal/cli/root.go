package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) prompt() string {
	if a.identity != "" {
		return fmt.Sprintf("vault (%s)> ", a.identity)
	}
	return "vault> "
}

func (a *App) Root(ctx context.Context) {

	fmt.Println("swipevault CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print(a.prompt())
		if !scanner.Scan() {
			break
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: set <service>, get <service>, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			a.identity = ""
			fmt.Println("Logged out")
		case "set":
			if len(args) == 0 {
				fmt.Println("Usage: set <service>")
				continue
			}
			_ = a.SetSecret(ctx, args[0])
		case "get":
			if len(args) == 0 {
				fmt.Println("Usage: get <service>")
				continue
			}
			_ = a.GetSecret(ctx, args[0])
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
