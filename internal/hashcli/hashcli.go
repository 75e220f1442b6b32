// Package hashcli implements the hashpw command: it reads a password from
// the terminal and prints the stored-credential encoding for it.
package hashcli

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/krishirakshak/krishirakshak/internal/server/auth"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var ErrMismatch = errors.New("passwords do not match")

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. The caller should wipe the returned slice.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// Run parses args, asks for the password twice and writes digest and salt
// to out. Prompts go to prompts so out can be piped.
func Run(args []string, out, prompts io.Writer) error {
	fs := flag.NewFlagSet("hashpw", flag.ContinueOnError)
	fs.SetOutput(prompts)
	iterations := fs.Int("i", auth.DefaultIterations, "PBKDF2 iterations")
	if err := fs.Parse(args); err != nil {
		return err
	}

	pw, err := GetPassword(prompts, "Password: ")
	if err != nil {
		return err
	}
	defer wipe(pw)

	again, err := GetPassword(prompts, "Repeat password: ")
	if err != nil {
		return err
	}
	defer wipe(again)

	if !bytes.Equal(pw, again) {
		return ErrMismatch
	}

	h := auth.NewPasswordHasher(*iterations)
	digest, salt, err := h.Derive(string(pw), nil)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "iterations=%d\npassword_hash=%s\nsalt=%s\n", h.Iterations(), digest, salt)
	return err
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
