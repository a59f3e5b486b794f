package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// Prefs shows the current notification preferences and lets the user toggle
// them one by one. The updated profile returned by the server replaces the
// cached one.
func (a *App) Prefs(ctx context.Context) error {
	u := a.session.User()
	if u == nil {
		fmt.Println("Not logged in")
		return nil
	}

	prefs := u.Notifications
	toggles := []struct {
		label string
		v     *bool
	}{
		{"New tenders", &prefs.NewTenders},
		{"Status changes", &prefs.StatusChanges},
		{"IPA tenders", &prefs.IPATenders},
		{"Project management", &prefs.ProjectManagement},
		{"Daily digest", &prefs.DailyDigest},
	}

	for _, tg := range toggles {
		answer, err := getSimpleText(a.reader,
			fmt.Sprintf("%s [%s] (y/n, empty to keep)", tg.label, onOff(*tg.v)), os.Stdout)
		if err != nil {
			return err
		}
		switch answer {
		case "y", "yes":
			*tg.v = true
		case "n", "no":
			*tg.v = false
		}
	}

	updated, err := a.client.UpdatePreferences(ctx, a.session.Token(), prefs)
	if err != nil {
		log.Printf("Preference update failed: %s", err.Error())
		return err
	}
	if err := a.session.UpdateUser(ctx, updated); err != nil {
		log.Printf("Could not cache updated profile: %s", err.Error())
		return err
	}
	fmt.Println("Preferences saved")
	return nil
}

// LinkedIn prompts for a LinkedIn profile URL and saves it.
func (a *App) LinkedIn(ctx context.Context) error {
	url, err := getSimpleText(a.reader, "LinkedIn profile URL", os.Stdout)
	if err != nil {
		return err
	}
	if url == "" {
		fmt.Println("Nothing to save")
		return nil
	}

	updated, err := a.client.UpdateLinkedIn(ctx, a.session.Token(), url)
	if err != nil {
		log.Printf("LinkedIn update failed: %s", err.Error())
		return err
	}
	if err := a.session.UpdateUser(ctx, updated); err != nil {
		log.Printf("Could not cache updated profile: %s", err.Error())
		return err
	}
	fmt.Println("Saved")
	return nil
}

// Users lists the registered colleagues, useful when picking share
// recipients.
func (a *App) Users(ctx context.Context) error {
	users, err := a.client.ListUsers(ctx, a.session.Token())
	if err != nil {
		log.Printf("Users failed: %s", err.Error())
		return err
	}

	for _, u := range users {
		fmt.Printf("%-30s  %-24s  %s\n", u.Email, u.Role, u.Name)
	}
	return nil
}
