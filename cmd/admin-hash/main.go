// Command admin-hash prints a bcrypt hash for ADMIN_PASSWORD_HASH.
//
//	go run ./cmd/admin-hash 'correct horse battery staple'
package main

import (
	"fmt"
	"os"

	"github.com/example/moringa-store/internal/auth"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: admin-hash <password>")
		os.Exit(2)
	}
	hash, err := auth.HashPassword(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
