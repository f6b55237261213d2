// umlgen turns class diagrams into Spring Boot or Go projects.
//
//	umlgen generate -base-package com.acme.shop -o out shop.json
//	umlgen contexts -format yaml shop.json
//	umlgen ddl -dialect mysql shop.json
//	umlgen graphql shop.json
//	umlgen watch -o out shop.json
//	umlgen serve
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
)

// command is one subcommand of umlgen.
type command struct {
	usage string
	run   func(ctx context.Context, args []string, stdout, stderr io.Writer) error
}

var commands = map[string]command{
	"generate": {"render diagrams into projects", generateCmd},
	"contexts": {"print the entity contexts of a diagram", contextsCmd},
	"ddl":      {"print or apply the SQL schema of a diagram", ddlCmd},
	"graphql":  {"print the GraphQL schema of a diagram", graphqlCmd},
	"watch":    {"regenerate a project whenever its diagram changes", watchCmd},
	"serve":    {"start the HTTP API", serveCmd},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintf(os.Stderr, "umlgen: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		return flag.ErrHelp
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	return cmd.run(ctx, args[1:], stdout, stderr)
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "usage: umlgen <command> [flags] [diagram...]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].usage)
	}
}
