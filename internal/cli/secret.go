package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avetrovs/swipevault/internal/common"
)

// SetSecret prompts for a value and stores it encrypted under serviceName.
// Requires a logged-in session; the gate lives here, not in the service.
func (a *App) SetSecret(ctx context.Context, serviceName string) error {
	if !a.isLoggedIn() {
		fmt.Println("Login first")
		return nil
	}

	value, err := getHiddenInput(fmt.Sprintf("Enter value for %q", serviceName), os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(value)

	if err := a.service.StoreSecret(ctx, serviceName, string(value)); err != nil {
		fmt.Println("Failed to store secret:", err.Error())
		return err
	}

	fmt.Printf("Secret for %q stored\n", serviceName)
	return nil
}

// GetSecret decrypts and prints the secret stored under serviceName.
func (a *App) GetSecret(ctx context.Context, serviceName string) error {
	if !a.isLoggedIn() {
		fmt.Println("Login first")
		return nil
	}

	value, err := a.service.RetrieveSecret(ctx, serviceName)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrNotFound):
			fmt.Printf("No secret stored for %q\n", serviceName)
			return nil
		case errors.Is(err, common.ErrTamperDetected):
			fmt.Printf("Stored secret for %q failed its integrity check\n", serviceName)
		default:
			fmt.Println("Failed to retrieve secret:", err.Error())
		}
		return err
	}

	fmt.Println(value)
	return nil
}
