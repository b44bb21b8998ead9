// Command chatctl drives a ChatClient from the shell: identity
// management (keygen, whoami) and a demo subcommand that walks a direct
// conversation through send, revoke and history in one process, against
// either an in-process mock transport (default) or a real go-waku node
// (built with -tags real_waku). It has no group or per-step subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	identityPath string
	identityPass string
	storePath    string
	storeSecret  string
)

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "chatctl drives a wakuchat ChatClient from the command line",
	Long: `chatctl exercises a ChatClient end to end: generate or inspect an
identity, and run a demo that creates a direct conversation between two
in-process identities, sends and receives messages, revokes one, and
replays history — against an in-process mock transport by default, or a
real go-waku node when built with the real_waku build tag.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chatctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&identityPath, "identity", "identity.json", "path to the encrypted identity export")
	pf.StringVar(&identityPass, "identity-password", "", "password protecting the identity export")
	pf.StringVar(&storePath, "store", "chatctl.store", "path to the encrypted local message store")
	pf.StringVar(&storeSecret, "store-secret", "", "key protecting the local message store (defaults to identity-password)")
}
