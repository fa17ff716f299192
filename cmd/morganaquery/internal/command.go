package morganaquery

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Command wraps the root cobra.Command so the CLI stays test-invokable
// without a process boundary.
type Command struct {
	*cobra.Command

	database string
	query    string
	verbose  bool
}

// NewCommand builds the `morganaquery` root command: --database (a root
// URI or bare local path) and --query (a single SELECT statement).
func NewCommand() *Command {
	c := &Command{}
	c.Command = &cobra.Command{
		Use:   "morganaquery",
		Short: "Run a single SELECT query against a directory-backed virtual database",
		RunE:  c.run,
	}

	flags := c.Command.Flags()
	flags.StringVar(&c.database, "database", "", "root URI of the database (file://, s3://, or a bare local path)")
	flags.StringVar(&c.query, "query", "", "SELECT statement to run")
	flags.BoolVar(&c.verbose, "verbose", false, "enable debug logging")

	return c
}

func (c *Command) run(cmd *cobra.Command, args []string) error {
	if c.verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	resp := Handle(context.Background(), Request{Database: c.database, Query: c.query})
	if resp.StatusCode != 200 {
		cmd.PrintErrln(resp.Error)
		return errExitCode(resp.StatusCode)
	}
	cmd.Println(resp.Body)
	return nil
}

// errExitCode carries the shim's status code through cobra's plain error
// return without re-deriving it from the message text at the call site.
type errExitCode int

func (e errExitCode) Error() string { return "query failed" }
