package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	flags "github.com/jessevdk/go-flags"

	"github.com/viant/patch-toolbox/patcher/service"
)

// Options defines CLI flags for the controller DTO patcher.
type Options struct {
	File         string `short:"f" long:"file" description:"Java source to patch (path or afs URL); defaults to the parking lot controller"`
	Rules        string `short:"r" long:"rules" description:"YAML rule file replacing the built-in controller rules"`
	DryRun       bool   `long:"dry-run" description:"print the diff instead of writing the file"`
	Backup       bool   `long:"backup" description:"keep the original next to the file with .orig suffix"`
	Strict       bool   `long:"strict" description:"fail when any rule does not match"`
	RequireClean bool   `long:"require-clean" description:"refuse to patch a file with uncommitted git changes"`
	List         bool   `long:"list" description:"list active rules and exit"`
	Verbose      bool   `short:"v" long:"verbose" description:"log per-rule outcomes to stderr"`
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).ParseArgs(args); err != nil {
		return 2
	}
	logger := log.New(stderr, "", log.LstdFlags)
	svc := service.NewService(&service.Config{URL: opts.File, Verbose: opts.Verbose})
	svc.SetLogger(logger)
	if opts.Rules != "" {
		if err := svc.LoadRules(ctx, opts.Rules); err != nil {
			logger.Print(err)
			return 1
		}
	}
	if opts.List {
		if err := svc.WriteRules(stdout); err != nil {
			logger.Print(err)
			return 1
		}
		return 0
	}
	out, err := svc.Patch(ctx, &service.PatchInput{
		DryRun:       opts.DryRun,
		Backup:       opts.Backup,
		Strict:       opts.Strict,
		RequireClean: opts.RequireClean,
	})
	if err != nil {
		logger.Print(err)
		return 1
	}
	if opts.DryRun {
		fmt.Fprint(stdout, out.Diff)
		return 0
	}
	fmt.Fprintln(stdout, out.Message)
	return 0
}
