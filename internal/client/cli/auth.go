package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/vkazlou/askpdf/internal/client/client"
)

// getSimpleText and getSecretText are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getSecretText = GetSecretText

// Login runs the OAuth flow: ask for a provider, print the authorization URL
// for the user to open in a browser, then consume the pasted callback URL.
// Pasting a callback without a code (the user cancelled at the provider)
// simply leaves the session signed out.
func (a *App) Login(ctx context.Context) error {
	provider, err := getSimpleText(a.reader, "Provider (google/github, default google)", os.Stdout)
	if err != nil {
		return err
	}
	if provider == "" {
		provider = "google"
	}

	authURL, err := a.authService.InitiateOAuth(ctx, provider)
	if err != nil {
		log.Printf("Login failed: %s", err.Error())
		return err
	}

	fmt.Println("Open this URL in your browser and complete the sign-in:")
	fmt.Println("  " + authURL)

	callbackURL, err := getSecretText("Paste the callback URL", os.Stdout)
	if err != nil {
		return err
	}
	if callbackURL == "" {
		fmt.Println("Login cancelled")
		return nil
	}

	user, err := a.authService.HandleCallback(ctx, callbackURL)
	if err != nil {
		log.Printf("Login failed: %s", err.Error())
		return err
	}
	if user == nil {
		fmt.Println("Login cancelled: callback carried no authorization code")
		return nil
	}

	fmt.Printf("Welcome, %s!\n", user.FullName)

	if err := a.convService.Sync(ctx); err != nil {
		log.Printf("Initial sync failed: %s", err.Error())
	}
	return nil
}

// WhoAmI resolves and prints the signed-in user.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.authService.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("%s <%s>\n", user.FullName, user.Email)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

// Reset destroys the local store and reinitializes an empty one. Server-side
// data is untouched; the next sync repopulates the mirror.
func (a *App) Reset(ctx context.Context) error {
	confirm, err := getSimpleText(a.reader, "Destroy the local store? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if confirm != "yes" {
		fmt.Println("Aborted")
		return nil
	}

	if err := a.repos.Destroy(); err != nil {
		log.Printf("Reset failed: %s", err.Error())
		return err
	}
	a.state.Reset()

	repos, err := client.InitDatabase(ctx, a.dbPath)
	if err != nil {
		log.Printf("Failed to reinitialize store: %s", err.Error())
		return err
	}
	a.repos = repos
	a.wireServices()

	fmt.Println("Local store destroyed and reinitialized")
	return nil
}
