package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/avetrovs/swipevault/internal/common"
)

// Login prompts for credentials and verifies them against the vault. The
// failure message is the same whether the account does not exist or the
// password is wrong.
func (a *App) Login(ctx context.Context) error {
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

	ok, err := a.service.Authenticate(ctx, identity, string(password))
	if err != nil {
		fmt.Println("Login failed:", err.Error())
		return err
	}
	if !ok {
		fmt.Println("Invalid credentials")
		return nil
	}

	a.identity = strings.ToLower(strings.TrimSpace(identity))
	fmt.Println("Login successful")
	return nil
}
