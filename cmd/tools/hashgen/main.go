// Command hashgen prints an argon2id hash for the given password, suitable
// for the ADMIN_PASSWORD_HASH environment variable.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexedwards/argon2id"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <password>\n", os.Args[0])
		os.Exit(2)
	}

	hash, err := argon2id.CreateHash(os.Args[1], argon2id.DefaultParams)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	fmt.Println(hash)
}
