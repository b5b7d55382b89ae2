package cli

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/shelfie-app/shelfie/internal/client/models"
)

// scan uploads a shelf photo to the identification service and walks the
// user through accepting the detected segments into the collection.
func (a *App) scan(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: scan <image-file>")
		return
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	image := base64.StdEncoding.EncodeToString(data)

	segments, err := a.identify.ProcessImage(ctx, image, args[0])
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if len(segments) == 0 {
		fmt.Println("No game boxes were detected in the image")
		return
	}

	for i, segment := range segments {
		fmt.Printf("Segment %d of %d: %s\n", i+1, len(segments), segment.Name)

		answer, err := GetSimpleText(a.reader, "Add to collection? (y/n)")
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		if !strings.EqualFold(answer, "y") {
			continue
		}

		shelf, err := GetSimpleText(a.reader, "Shelf label")
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		caseID, err := GetSimpleText(a.reader, "Case label")
		if err != nil {
			fmt.Println(err.Error())
			return
		}

		segment.Shelf = shelf
		segment.Case = caseID
		if err := a.collection.Add(ctx, segment); err != nil {
			fmt.Println(err.Error())
			continue
		}
		fmt.Println("Added", segment.Name)
	}
}

func (a *App) delete(ctx context.Context, args []string) {
	if len(args) == 0 {
		fmt.Println("Usage: delete <id>")
		return
	}
	if err := a.collection.Remove(ctx, models.ID(args[0])); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Deleted", args[0])
}

func (a *App) rename(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: rename <id> <new name>")
		return
	}
	name := strings.Join(args[1:], " ")
	update := models.ItemUpdate{GameName: &name}
	if err := a.collection.Update(ctx, models.ID(args[0]), update); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Renamed", args[0])
}

func (a *App) move(ctx context.Context, args []string) {
	if len(args) != 3 {
		fmt.Println("Usage: move <id> <shelf> <case>")
		return
	}
	update := models.ItemUpdate{Shelf: &args[1], Case: &args[2]}
	if err := a.collection.Update(ctx, models.ID(args[0]), update); err != nil {
		fmt.Println(err.Error())
		return
	}
	fmt.Println("Moved", args[0])
}

func (a *App) clear(ctx context.Context) {
	answer, err := GetSimpleText(a.reader, "Delete the entire collection? (y/n)")
	if err != nil {
		fmt.Println(err.Error())
		return
	}
	if !strings.EqualFold(answer, "y") {
		return
	}
	if err := a.collection.Clear(ctx); err != nil {
		fmt.Println("Some items could not be deleted server-side:", err.Error())
	}
	fmt.Println("Collection cleared")
}
