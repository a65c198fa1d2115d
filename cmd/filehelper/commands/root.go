package commands

import (
	"io"
	"log"
	"os"

	"github.com/ImGajeed76/filehelper/pkg/filehelper"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/config"
	"github.com/ImGajeed76/filehelper/pkg/filehelper/path"
	sftpmanager "github.com/ImGajeed76/filehelper/pkg/filehelper/sftp"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// globalOptions carries the persistent flags and the resources opened on
// their behalf during one invocation.
type globalOptions struct {
	encoding   string
	output     string
	knownHosts string
	insecure   bool
	verbose    bool
	keyring    string

	manager *sftpmanager.Manager
}

func (g *globalOptions) logger(cmd *cobra.Command) *log.Logger {
	if !g.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(cmd.ErrOrStderr(), "filehelper: ", log.LstdFlags)
}

func (g *globalOptions) credentials() (*config.Credentials, error) {
	if g.keyring == "" {
		return config.Default(), nil
	}
	return config.New(g.keyring)
}

// open returns a helper for file configured from the global flags and then
// from configure. The SFTP pool is created on first use and released by close.
func (g *globalOptions) open(cmd *cobra.Command, file string, configure ...func(*filehelper.Options)) (*filehelper.Helper, error) {
	p, err := path.Parse(file)
	if err != nil {
		return nil, err
	}
	creds, err := g.credentials()
	if err != nil {
		return nil, err
	}

	if p.IsSftp() && g.manager == nil {
		g.manager = sftpmanager.NewManager(sftpmanager.ManagerConfig{
			KnownHostsFile:        g.knownHosts,
			InsecureIgnoreHostKey: g.insecure,
			Logger:                g.logger(cmd),
		})
	}

	opts := filehelper.Options{
		Encoding:    g.encoding,
		Logger:      g.logger(cmd),
		Credentials: creds,
		Manager:     g.manager,
	}
	for _, fn := range configure {
		fn(&opts)
	}
	return filehelper.OpenPath(p, opts)
}

func (g *globalOptions) close() {
	if g.manager != nil {
		g.manager.Close()
		g.manager = nil
	}
}

// NewRootCommand builds the command tree. Callers that execute it should
// run the returned cleanup afterwards.
func NewRootCommand() (*cobra.Command, func()) {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "filehelper",
		Short: "Read and write line-oriented text files",
		Long: `filehelper - read and write line-oriented text files.

Files are local paths or sftp://user@host[:port]/absolute/path references.
Missing files are created on first access. Lines are read with any of
LF, CRLF or CR as terminator and always written with CRLF.

SFTP passwords are taken from the URL or from the system keyring, where
'filehelper credentials set user@host:port' stores them.

Examples:
  # Print a key/value file as YAML
  filehelper map users.txt -d :

  # Append a line to a remote file
  filehelper write sftp://alice@files.example.com/srv/log.txt "started" --line --append

  # Replace a file with several lines and watch the progress
  filehelper put hosts.txt web1 web2 db1 --progress`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.encoding, "encoding", "e", "", "IANA charset of the file (default UTF-8)")
	flags.StringVarP(&g.output, "output", "o", string(FormatYAML), "output format: yaml or json")
	flags.StringVar(&g.knownHosts, "known-hosts", "", "known_hosts file for SFTP host key checks (default ~/.ssh/known_hosts)")
	flags.BoolVar(&g.insecure, "insecure", false, "skip SFTP host key verification")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "log cleanup and connection problems to stderr")
	flags.StringVar(&g.keyring, "keyring-service", "", "keyring service for SFTP passwords (default \"filehelper\")")

	root.AddCommand(
		newLinesCommand(g),
		newMapCommand(g),
		newIDMapCommand(g),
		newWriteCommand(g),
		newPutCommand(g),
		newReadCommand(g),
		newHeadCommand(g),
		newViewCommand(g),
		newCredentialsCommand(g),
		newVersionCommand(),
	)

	return root, g.close
}

// Execute runs the root command.
func Execute() error {
	root, cleanup := NewRootCommand()
	defer cleanup()
	return root.Execute()
}

// isTerminal reports whether f is an interactive terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
