// Package main prints the bcrypt hash for an admin password, for use as
// the ADMIN_PASSWORD_HASH environment value.
package main

import (
	"fmt"
	"os"

	"github.com/prizedraw/backend/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: hashpw <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
