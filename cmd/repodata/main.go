// repodata reads the metadata of an rpm-md repository.
//
// Usage:
//
//	repodata [flags] index [--tolerant]
//	repodata [flags] packages
//	repodata [flags] files
//	repodata [flags] updates
//	repodata [flags] patches [--descriptors]
//	repodata [flags] query <type|location> <xpath>
//
// Records are written to standard output as JSON, one per line. The
// repository is a directory or an http(s) URL, given by --repository or
// the configuration file named by --config or REPODATA_CONFIG.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"

	"github.com/andaru/repodata/config"
	"github.com/andaru/repodata/mderr"
	"github.com/andaru/repodata/source"
	"github.com/golang/glog"
	"github.com/spf13/pflag"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, os.Args[1:], os.Stdout)
	stop()
	glog.Flush()
	if err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError writes err, as JSON when it is a metadata error.
func printError(w io.Writer, err error) {
	if e, ok := mderr.As(err); ok {
		enc := json.NewEncoder(w)
		if enc.Encode(e) == nil {
			return
		}
	}
	fmt.Fprintf(w, "error: %v\n", err)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var (
		configPath string
		repository string
		noVerify   bool
		documents  []string
	)
	flags := pflag.NewFlagSet("repodata", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "configuration file (default $"+config.EnvVar+")")
	flags.StringVarP(&repository, "repository", "r", "", "repository directory or http(s) URL")
	flags.BoolVar(&noVerify, "no-verify", false, "do not verify document checksums")
	flags.StringSliceVar(&documents, "documents", nil, "document types which may be opened")
	timeout := flags.Duration("timeout", 0, "HTTP request timeout")
	descriptors := flags.Bool("descriptors", false, "patches: read each patch descriptor")
	tolerant := flags.Bool("tolerant", false, "index: list entries without binding the index, ignoring unknown elements")
	flags.AddGoFlagSet(flag.CommandLine)
	flags.Usage = func() { usage(flags) }

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := config.Load(config.Path(configPath))
	if err != nil {
		return err
	}
	if flags.Changed("repository") {
		cfg.Repository = repository
	}
	if flags.Changed("no-verify") {
		cfg.VerifyChecksums = !noVerify
	}
	if flags.Changed("documents") {
		cfg.Documents = documents
	}
	if flags.Changed("timeout") {
		cfg.HTTP.Timeout = *timeout
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Log.Verbosity > 0 && !flags.Changed("v") {
		if err := flag.Set("v", strconv.Itoa(cfg.Log.Verbosity)); err != nil {
			return err
		}
	}

	rest := flags.Args()
	if len(rest) == 0 {
		usage(flags)
		return fmt.Errorf("no command given")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}
	if len(rest)-1 != cmd.args {
		return fmt.Errorf("%s: want %d arguments, got %d", rest[0], cmd.args, len(rest)-1)
	}

	repo, err := newRepository(cfg)
	if err != nil {
		return err
	}
	a := &app{
		cfg:         cfg,
		repo:        repo,
		enc:         json.NewEncoder(out),
		out:         out,
		descriptors: *descriptors,
		tolerant:    *tolerant,
	}
	return cmd.run(a, ctx, rest[1:])
}

func newRepository(cfg *config.Config) (*source.Repository, error) {
	client := &http.Client{Timeout: cfg.HTTP.Timeout}
	f, err := source.NewFetcher(cfg.Repository, client)
	if err != nil {
		return nil, err
	}
	if h, ok := f.(*source.HTTP); ok {
		h.UserAgent = cfg.HTTP.UserAgent
	}
	repo := source.New(f)
	repo.NoVerify = !cfg.VerifyChecksums
	if repo.NoVerify {
		glog.Warningf("checksum verification disabled for %s", cfg.Repository)
	}
	return repo, nil
}

func usage(flags *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Usage: repodata [flags] <command> [arguments]

Commands:
  index [--tolerant]          list the documents of the repository index
  packages                    list the packages of the primary document
  files                       list the files of each package
  updates                     list the advisories of the updateinfo document
  patches                     list the patches of the patches document
  query <type|location> <xpath>
                              evaluate an XPath expression over a document

Flags:
`)
	flags.PrintDefaults()
}
