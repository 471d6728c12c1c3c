package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/wayfarer-app/wayfarer/internal/exchange"
	"github.com/wayfarer-app/wayfarer/internal/models"
	"github.com/wayfarer-app/wayfarer/internal/registration"
)

func (a *App) Login(ctx context.Context, intent exchange.Intent) {
	email, err := GetSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	password, err := GetPassword(os.Stdout)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	sess, err := a.sessions.Login(ctx, email, password, intent)
	if err != nil {
		fmt.Println(exchange.UserMessage(err))
		return
	}

	fmt.Printf("Signed in as %s (until %s).\n", sess.UserEmail, sess.ExpiresAt.Format("15:04:05"))
}

func (a *App) Logout(ctx context.Context) {
	if err := a.sessions.Logout(ctx); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("Signed out.")
}

func (a *App) WhoAmI() {
	sess := a.sessions.Current()
	if !sess.Authenticated() {
		fmt.Println("Not signed in.")
		return
	}
	fmt.Printf("%s (%s), session expires %s\n", sess.UserEmail, sess.UserID, sess.ExpiresAt.Format("2006-01-02 15:04:05"))
}

func (a *App) Register(ctx context.Context) {
	form, err := a.readForm()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	files, err := a.readAttachments()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	traveller, err := a.registration.Register(ctx, form, files)
	if err != nil {
		var batchErr *registration.BatchError
		switch {
		case errors.Is(err, registration.ErrNotAuthenticated):
			fmt.Println("Please sign in first.")
		case errors.As(err, &batchErr):
			fmt.Printf("Registration aborted, these files failed: %v\n", batchErr.Failed)
		default:
			fmt.Printf("Registration failed: %v\n", err)
		}
		return
	}

	fmt.Printf("Registered %s %s with %d photo(s).\n", traveller.FirstName, traveller.LastName, len(traveller.FileURLs))
}

func (a *App) readForm() (registration.Form, error) {
	var form registration.Form
	var err error

	if form.FirstName, err = GetSimpleText(a.reader, "First name", os.Stdout); err != nil {
		return form, err
	}
	if form.LastName, err = GetSimpleText(a.reader, "Last name", os.Stdout); err != nil {
		return form, err
	}
	if form.Description, err = GetSimpleText(a.reader, "About you", os.Stdout); err != nil {
		return form, err
	}

	days, err := GetSimpleText(a.reader, "Days in city", os.Stdout)
	if err != nil {
		return form, err
	}
	if form.DaysInCity, err = strconv.Atoi(days); err != nil {
		return form, fmt.Errorf("days in city must be a number: %w", err)
	}

	if form.Cities, err = GetList(a.reader, "Cities (comma-separated)", os.Stdout); err != nil {
		return form, err
	}
	return form, nil
}

// readAttachments reads photo paths from the prompt and loads each file
// into memory. An empty answer means no attachments, which is valid.
func (a *App) readAttachments() ([]models.SourceFile, error) {
	paths, err := GetList(a.reader, "Photo paths (comma-separated, empty for none)", os.Stdout)
	if err != nil {
		return nil, err
	}

	files := make([]models.SourceFile, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		files = append(files, models.SourceFile{Name: filepath.Base(path), Content: content})
	}
	return files, nil
}
