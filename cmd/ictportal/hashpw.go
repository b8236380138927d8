package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
)

// hashpw generates the bcrypt hashes that go into ADMIN_PASSWORD_HASH
// and REVIEW_PASSWORD_HASH. Plaintext credentials are never configured.
var hashpwCommand = &cli.Command{
	Name:      "hashpw",
	Usage:     "Hash a password for use in the environment config",
	ArgsUsage: "<password>",
	Action: func(c *cli.Context) error {
		password := c.Args().First()
		if password == "" {
			return fmt.Errorf("usage: hashpw <password>")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		fmt.Println(string(hash))
		return nil
	},
}
