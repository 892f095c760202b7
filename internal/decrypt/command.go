package decrypt

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"trucksync/internal/domain"
	"trucksync/internal/logging"
)

// Command decrypts by running an external tool as `<tool> [args...] <input> <output>`.
// The output is written into a private temp directory that is removed afterwards.
type Command struct {
	Path   string
	Args   []string
	logger zerolog.Logger
}

// NewCommand parses a command line such as "sii_decrypt --quiet". Returns nil for an
// empty command line.
func NewCommand(commandLine string) *Command {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return nil
	}
	return &Command{Path: fields[0], Args: fields[1:], logger: logging.GetLogger("decrypt")}
}

// Decrypt runs the tool on path and returns the text it produced
func (c *Command) Decrypt(path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "trucksync-decrypt-*")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp dir: %w", domain.ErrIO, err)
	}
	defer os.RemoveAll(tmpDir)

	out := filepath.Join(tmpDir, "decrypted.sii")
	args := append(append([]string{}, c.Args...), path, out)

	var stderr bytes.Buffer
	cmd := exec.Command(c.Path, args...)
	cmd.Stderr = &stderr

	c.logger.Debug().Str("tool", c.Path).Strs("args", args).Msg("Running external decryptor")
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", failure(path, fmt.Errorf("%s: %w: %s", c.Path, err, msg))
		}
		return "", failure(path, fmt.Errorf("%s: %w", c.Path, err))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return "", failure(path, fmt.Errorf("%s produced no output: %w", c.Path, err))
	}
	if !bytes.HasPrefix(data, sigPlain) {
		return "", failure(path, fmt.Errorf("%s output is not plaintext SII", c.Path))
	}
	return toText(data), nil
}
