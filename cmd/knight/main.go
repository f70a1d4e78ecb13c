// Command knight is the entry point for running Knight programs: file
// mode, an interactive REPL, the HTTP/LSP server surface, and the ast
// debug-dump subcommand.
package main

import (
	"bufio"
	"encoding/base64"
	"flag"
	"fmt"
	"os"

	"github.com/chazu/knight/ast"
	"github.com/chazu/knight/knight"
	"github.com/chazu/knight/manifest"
	"github.com/chazu/knight/server"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "ast" {
		astCommand(os.Args[2:])
		return
	}

	interactive := flag.Bool("i", false, "Start interactive REPL")
	serveMode := flag.Bool("serve", false, "Start the HTTP eval server")
	servePort := flag.Int("port", 0, "Eval server port (used with --serve; overrides knight.toml)")
	lsp := flag.Bool("lsp", false, "Also start the LSP server on stdio (used with --serve)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: knight [options] [file]\n\n")
		fmt.Fprintf(os.Stderr, "Parses and evaluates the first expression in file. With no file, runs the\n")
		fmt.Fprintf(os.Stderr, "knight.toml entry script if one exists, otherwise starts the REPL.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  knight program.kn           # Run a file\n")
		fmt.Fprintf(os.Stderr, "  knight -i                   # Start REPL\n")
		fmt.Fprintf(os.Stderr, "  knight --serve --port 4567  # Start the HTTP eval server\n")
		fmt.Fprintf(os.Stderr, "  knight --serve --lsp        # Also start the LSP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  knight ast program.kn       # Print a CBOR dump of the parsed tree\n")
	}
	flag.Parse()

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	m, err := manifest.FindAndLoad(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading knight.toml: %v\n", err)
		os.Exit(1)
	}

	var env *knight.Environment
	if m != nil && m.Interpreter.RngSeed != 0 {
		env = knight.NewEnvironmentSeeded(m.Interpreter.RngSeed)
	} else {
		env = knight.NewEnvironment()
	}

	if *serveMode {
		addr := ":4567"
		if m != nil && m.Server.HTTPAddr != "" {
			addr = m.Server.HTTPAddr
		}
		if *servePort != 0 {
			addr = fmt.Sprintf(":%d", *servePort)
		}
		runServe(env, addr, *lsp || (m != nil && m.Server.LSP))
		return
	}

	paths := flag.Args()
	if *interactive || len(paths) == 0 {
		if len(paths) == 0 && !*interactive {
			runEntryOrREPL(env, m)
			return
		}
		runREPL(env)
		return
	}

	runFile(env, paths[0])
}

// runEntryOrREPL runs the manifest's configured entry script if one exists
// and no file was given on the command line, falling back to the REPL.
func runEntryOrREPL(env *knight.Environment, m *manifest.Manifest) {
	if m != nil {
		if _, err := os.Stat(m.EntryPath()); err == nil {
			runFile(env, m.EntryPath())
			return
		}
	}
	runREPL(env)
}

func runFile(env *knight.Environment, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	result, err := knight.Play(source, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	result.Decrement()
}

func runREPL(env *knight.Environment) {
	fmt.Println("Knight REPL (Ctrl-D to quit)")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		result, err := knight.Play([]byte(line), env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Println(knight.DebugForm(result))
		result.Decrement()
	}
}

func runServe(env *knight.Environment, addr string, withLSP bool) {
	srv := server.New(env)
	defer srv.Stop()

	if withLSP {
		lspSrv := server.NewLSP(srv.Worker())
		go func() {
			if err := lspSrv.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "LSP server error: %v\n", err)
			}
		}()
	}

	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

func astCommand(args []string) {
	fs := flag.NewFlagSet("ast", flag.ExitOnError)
	fs.Parse(args)

	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "Usage: knight ast <file>\n")
		os.Exit(1)
	}

	path := fs.Arg(0)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", path, err)
		os.Exit(1)
	}

	env := knight.NewEnvironment()
	p := knight.NewParser(source, env)
	v, err := p.Next()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error in %s: %v\n", path, err)
		os.Exit(1)
	}
	defer v.Decrement()

	data, err := ast.Dump(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error dumping %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Println(base64.StdEncoding.EncodeToString(data))
}
