package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/shelfie-app/shelfie/internal/client/export"
)

// export writes the collection to a file. "export csv server" pulls the
// server-rendered CSV; every other format is rendered locally.
func (a *App) export(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: export <json|yaml|csv|md> [server]")
		return
	}

	if len(args) > 1 && args[1] == "server" {
		data, err := a.collection.ExportCSV(ctx)
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		if err := os.WriteFile("collection.csv", data, 0o644); err != nil {
			fmt.Println(err.Error())
			return
		}
		fmt.Println("Wrote collection.csv")
		return
	}

	exporter, err := export.NewExporter(args[0])
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	name := "collection." + exporter.Extension()
	f, err := os.Create(name)
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	defer f.Close()

	if err := exporter.Export(a.collection.Items(), f); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Wrote", name)
}
