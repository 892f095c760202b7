package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt <file> [dest]",
	Short: "Decrypt an encrypted SII file",
	Long: `Write the plaintext of an encrypted (ScsC) SII file such as profile.sii to
[dest], or to stdout when no destination is given. Plaintext input is copied as is.

Some profiles decrypt to a binary (BSII) payload instead of text. Those need an
external decryptor, set as decryptor_command in config.yaml:

  decryptor_command: SII_Decrypt

The tool is run as '<decryptor_command> <input> <output>' and must write the
plaintext SII to <output>. Without it, binary profiles fail with a decryption error.
The same fallback applies when sync or list read such a profile.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDecrypt,
}

func init() {
	rootCmd.AddCommand(decryptCmd)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	svc, err := initService()
	if err != nil {
		return fmt.Errorf("initializing service: %w", err)
	}
	defer svc.Close()

	out := cmd.OutOrStdout()
	if len(args) == 1 {
		text, err := svc.Decrypt(args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(out, text)
		return nil
	}

	if err := svc.DecryptTo(args[0], args[1]); err != nil {
		return err
	}
	if jsonOutput {
		return writeJSON(out, map[string]string{"source": args[0], "dest": args[1]})
	}
	fmt.Fprintf(out, "%s %s to %s\n", successStyle().Render("Decrypted"), args[0], args[1])
	return nil
}
