package cli

import (
	"context"
	"log"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts the user for a name, email and password and attempts to
// create a new account. On success the session is active immediately, no
// separate login is needed.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.authService.Register(ctx, name, email, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %s", err.Error())
		return err
	}

	a.userEmail = user.Email
	log.Printf("Registered and logged in as %s", user.Email)
	return nil
}

// Login prompts the user for credentials and tries to authenticate.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %s", err.Error())
		return err
	}

	a.userEmail = user.Email
	log.Printf("Login successful")
	return nil
}

// Profile fetches and prints the current user's profile.
func (a *App) Profile(ctx context.Context) error {
	user, err := a.authService.Profile(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	printlnFn("Name: ", user.Name)
	printlnFn("Email:", user.Email)
	printlnFn("Since:", user.CreatedAt.Format("2006-01-02"))
	return nil
}

// EditProfile prompts for a new name and email and updates the profile.
// Empty input keeps the current value.
func (a *App) EditProfile(ctx context.Context) error {
	current, err := a.authService.Profile(ctx)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	name, err := getSimpleText(a.reader, "Enter name (empty to keep '"+current.Name+"')", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		name = current.Name
	}

	email, err := getSimpleText(a.reader, "Enter email (empty to keep '"+current.Email+"')", os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = current.Email
	}

	user, err := a.authService.UpdateProfile(ctx, name, email)
	if err != nil {
		log.Printf("Update unsuccessful: %s", err.Error())
		return err
	}

	a.userEmail = user.Email
	printlnFn("Profile updated")
	return nil
}

// Logout drops the cached session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	a.userEmail = ""
	log.Printf("Logged out")
	return nil
}
