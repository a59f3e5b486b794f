package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/grovellows/tendertrack/internal/client/models"
)

// parseFilterArgs turns "key=value" tokens into a TenderFilter. Unknown keys
// are reported and skipped.
func parseFilterArgs(args []string) models.TenderFilter {
	var f models.TenderFilter
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			printlnFn("Ignoring filter (want key=value):", arg)
			continue
		}
		switch key {
		case "status":
			f.Status = value
		case "category":
			f.Category = value
		case "location":
			f.Location = value
		case "search":
			f.Search = value
		default:
			printlnFn("Unknown filter key:", key)
		}
	}
	return f
}

// List prints tenders matching the optional key=value filter args,
// e.g. "list status=New category=IPA search=bridge".
func (a *App) List(ctx context.Context, args []string) error {
	tenders, err := a.client.ListTenders(ctx, a.session.Token(), parseFilterArgs(args))
	if err != nil {
		log.Printf("List failed: %s", err.Error())
		return err
	}

	if len(tenders) == 0 {
		fmt.Println("No tenders found")
		return nil
	}
	for _, t := range tenders {
		fmt.Printf("%-36s  %-12s  %-28s  %s\n", t.ID, t.Status, t.Category, t.Title)
	}
	return nil
}

// Show prints the full details of one tender.
func (a *App) Show(ctx context.Context, args []string) error {
	t, err := a.client.GetTender(ctx, a.session.Token(), args[0])
	if err != nil {
		log.Printf("Show failed: %s", err.Error())
		return err
	}

	fmt.Printf("Title:     %s\n", t.Title)
	fmt.Printf("Status:    %s\n", t.Status)
	fmt.Printf("Category:  %s\n", t.Category)
	fmt.Printf("Location:  %s\n", t.Location)
	fmt.Printf("Authority: %s\n", t.ContractingAuthority)
	if t.Budget != "" {
		fmt.Printf("Budget:    %s\n", t.Budget)
	}
	fmt.Printf("Deadline:  %s\n", t.Deadline.Format("2006-01-02"))
	fmt.Printf("Source:    %s (%s)\n", t.PlatformSource, t.PlatformURL)
	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}
	if t.Notes != "" {
		fmt.Printf("\nNotes: %s\n", t.Notes)
	}
	return nil
}

// Update prompts for a new status and notes for the tender and submits them.
func (a *App) Update(ctx context.Context, args []string) error {
	status, err := getSimpleText(a.reader, "New status (New / In Progress / Closed, empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.UpdateTender(ctx, a.session.Token(), args[0], status, notes); err != nil {
		log.Printf("Update failed: %s", err.Error())
		return err
	}
	fmt.Println("Updated")
	return nil
}

// Favorite marks a tender as a favorite.
func (a *App) Favorite(ctx context.Context, args []string) error {
	if err := a.client.AddFavorite(ctx, a.session.Token(), args[0]); err != nil {
		log.Printf("Favorite failed: %s", err.Error())
		return err
	}
	fmt.Println("Added to favorites")
	return nil
}

// Unfavorite removes a tender from favorites.
func (a *App) Unfavorite(ctx context.Context, args []string) error {
	if err := a.client.RemoveFavorite(ctx, a.session.Token(), args[0]); err != nil {
		log.Printf("Unfavorite failed: %s", err.Error())
		return err
	}
	fmt.Println("Removed from favorites")
	return nil
}

// Favorites lists the user's favorite tenders.
func (a *App) Favorites(ctx context.Context) error {
	tenders, err := a.client.ListFavorites(ctx, a.session.Token())
	if err != nil {
		log.Printf("Favorites failed: %s", err.Error())
		return err
	}

	if len(tenders) == 0 {
		fmt.Println("No favorites yet")
		return nil
	}
	for _, t := range tenders {
		fmt.Printf("%-36s  %-12s  %s\n", t.ID, t.Status, t.Title)
	}
	return nil
}

// Share prompts for recipient emails and an optional message, then shares
// the tender with them.
func (a *App) Share(ctx context.Context, args []string) error {
	recipients, err := getSimpleText(a.reader, "Share with (comma-separated emails)", os.Stdout)
	if err != nil {
		return err
	}
	var sharedWith []string
	for _, r := range strings.Split(recipients, ",") {
		if r = strings.TrimSpace(r); r != "" {
			sharedWith = append(sharedWith, r)
		}
	}
	if len(sharedWith) == 0 {
		fmt.Println("Nobody to share with")
		return nil
	}

	message, err := GetMultiline(a.reader, "Message (optional)", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.client.ShareTender(ctx, a.session.Token(), args[0], sharedWith, message); err != nil {
		log.Printf("Share failed: %s", err.Error())
		return err
	}
	fmt.Println("Shared")
	return nil
}

// Shares lists shares the user sent or received.
func (a *App) Shares(ctx context.Context) error {
	shares, err := a.client.ListShares(ctx, a.session.Token())
	if err != nil {
		log.Printf("Shares failed: %s", err.Error())
		return err
	}

	if len(shares) == 0 {
		fmt.Println("No shares")
		return nil
	}
	for _, s := range shares {
		fmt.Printf("%s  tender %s  by %s  to %s\n",
			s.CreatedAt.Format("2006-01-02 15:04"), s.TenderID, s.SharedBy, strings.Join(s.SharedWith, ", "))
		if s.Message != "" {
			fmt.Printf("  %q\n", s.Message)
		}
	}
	return nil
}
