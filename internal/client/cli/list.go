package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

var (
	shelfStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	caseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).PaddingLeft(2)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(4)
	idStyle    = lipgloss.NewStyle().Faint(true)
)

func (a *App) list(ctx context.Context) {
	items := a.collection.Items()
	if len(items) == 0 {
		fmt.Println("Collection is empty")
		return
	}

	for _, shelf := range models.GroupByShelf(items) {
		fmt.Println(shelfStyle.Render("Shelf: " + shelf.Shelf))
		for _, c := range shelf.Cases {
			fmt.Println(caseStyle.Render("Case: " + c.Case))
			for _, item := range c.Items {
				fmt.Println(itemStyle.Render(item.GameName) + " " + idStyle.Render("["+string(item.ID)+"]"))
			}
		}
	}
}

func (a *App) sync(ctx context.Context) {
	if err := a.collection.Load(ctx); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Printf("Loaded %d items\n", len(a.collection.Items()))
}
