package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/browser"

	"nbedit/internal/logger"
)

// ConsoleKeysURL is where Anthropic API keys are created
const ConsoleKeysURL = "https://console.anthropic.com/settings/keys"

const keyPrefix = "sk-ant-"

// ErrInvalidKey is returned for input that is not an Anthropic API key
var ErrInvalidKey = errors.New("auth: not an Anthropic API key")

// Opener opens a URL for the user
type Opener func(url string) error

// OpenBrowser opens url in the default browser
func OpenBrowser(url string) error {
	return browser.OpenURL(url)
}

// Login opens the key console, reads a pasted key from in and stores it.
// A failure to open the browser only changes the instructions.
func Login(in io.Reader, out io.Writer, s *Storage, open Opener) (Credential, error) {
	if open == nil {
		open = OpenBrowser
	}

	if err := open(ConsoleKeysURL); err != nil {
		logger.Debug("Could not open browser: %v", err)
		fmt.Fprintf(out, "Create an API key at:\n\n  %s\n\n", ConsoleKeysURL)
	} else {
		fmt.Fprintf(out, "Opened %s in your browser.\n\n", ConsoleKeysURL)
	}
	fmt.Fprint(out, "Paste your API key: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Credential{}, fmt.Errorf("failed to read key: %w", err)
	}
	key := strings.TrimSpace(line)
	if !strings.HasPrefix(key, keyPrefix) || len(key) <= len(keyPrefix) {
		return Credential{}, ErrInvalidKey
	}

	c := Credential{Type: AuthTypeAPIKey, APIKey: key, SavedAt: time.Now()}
	if err := s.Set(ProviderAnthropic, c); err != nil {
		return Credential{}, err
	}
	fmt.Fprintf(out, "\nSaved %s to %s\n", c.Masked(), s.Path())
	return c, nil
}
