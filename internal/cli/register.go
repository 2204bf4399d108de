package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avetrovs/swipevault/internal/common"
)

// getSimpleText and getHiddenInput are indirections used to facilitate
// testing. They point to interactive input helpers and can be swapped in
// tests.
var getSimpleText = GetSimpleText
var getHiddenInput = GetHiddenInput

// Register prompts for an email and password and creates a new local
// account. The password buffer is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	identity, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	password, err := getHiddenInput("Enter password", os.Stdout)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	defer common.WipeByteArray(password)

	userID, err := a.service.Register(ctx, identity, string(password))
	if err != nil {
		if errors.Is(err, common.ErrDuplicateIdentity) {
			fmt.Println("An account with this email already exists")
		} else {
			fmt.Println("Registration failed:", err.Error())
		}
		return err
	}

	fmt.Printf("Registered (user #%d)\n", userID)
	return nil
}
