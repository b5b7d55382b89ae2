package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	u := a.session.User()
	if u == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Email)
}

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to Shelfie CLI (type 'help' for commands)")

	a.session.Load(ctx)
	if a.isLoggedIn() {
		if err := a.collection.Load(ctx); err != nil {
			fmt.Println(err.Error())
		}
	}

	for {
		fmt.Printf("shelfie %s> ", a.getStatus())
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Println("Available commands: list, scan, delete, rename, move, clear, export, profile, settings, sync, logout, exit")
			} else {
				fmt.Println("Available commands: register, login, exit")
			}
		case "register":
			a.register(ctx)
		case "login":
			a.login(ctx)
		case "logout":
			a.logout(ctx)
		case "list":
			a.list(ctx)
		case "sync":
			a.sync(ctx)
		case "scan":
			a.scan(ctx, args)
		case "delete":
			a.delete(ctx, args)
		case "rename":
			a.rename(ctx, args)
		case "move":
			a.move(ctx, args)
		case "clear":
			a.clear(ctx)
		case "export":
			a.export(ctx, args)
		case "profile":
			a.profile(ctx)
		case "settings":
			a.settings(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
