/*
File    : simplesml/cmd/simple/main.go

Package main is the entry point for the Simple/SML toolchain. It provides
three modes of operation:
 1. REPL Mode (default): an interactive line-buffering session with
    introspection meta-commands
 2. File Mode: execute a Simple source file from the command line
 3. Server Mode: accept REPL sessions over TCP, one goroutine per client
*/
package main

import (
	"net"
	"os"

	"github.com/fatih/color"
)

// VERSION is the current version of the toolchain.
var VERSION = "v1.0.0"

// AUTHOR is the contact for the toolchain's maintainer.
var AUTHOR = "akashmaji(@iisc.ac.in)"

// LICENCE is the toolchain's software license.
var LICENCE = "MIT"

// PROMPT is the command prompt displayed in REPL mode.
var PROMPT = "simple >>> "

// BANNER is the ASCII art logo displayed when starting the REPL.
var BANNER = `
  ▄▄▄▄▄  ▪  • ▌ ▄ ·. ▄▄▄▄· ▪  ▄▄▄ .
  •██  ██ ·██ ▐███▪▐█ ▀█▪██ ▀▄.▀·
   ▐█.▪▐█·▐█ ▌▐▌▐█·▐█▀▀█▄▐█·▐▀▀▪▄
   ▐█▌·▐█▌██ ██▌▐█▌██▄▪▐█▐█▌▐█▄▄▌
   ▀▀▀ ▀▀▀▀▀  █▪▀▀▀·▀▀▀▀ ▀▀▀ ▀▀▀
`

// LINE is a separator used for visual formatting in the REPL.
var LINE = "----------------------------------------------------------------"

var (
	redColor    = color.New(color.FgRed)
	yellowColor = color.New(color.FgYellow)
	cyanColor   = color.New(color.FgCyan)
)

func main() {
	if len(os.Args) > 1 {
		arg := os.Args[1]

		switch arg {
		case "--help", "-h":
			showHelp()
			os.Exit(0)
		case "--version", "-v":
			showVersion()
			os.Exit(0)
		case "server":
			if len(os.Args) < 3 {
				redColor.Fprintf(os.Stderr, "[USAGE ERROR] missing port for server mode. Usage: simple server <port>\n")
				os.Exit(1)
			}
			startServer(os.Args[2])
			return
		}

		runFile(arg)
		return
	}

	repler := NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENCE, PROMPT)
	repler.Start(os.Stdin, os.Stdout)
}

func showHelp() {
	cyanColor.Println("Simple/SML - an educational line-numbered language and its virtual machine")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	yellowColor.Println("  simple                     Start interactive REPL mode")
	yellowColor.Println("  simple <path-to-file>      Execute a Simple source file")
	yellowColor.Println("  simple server <port>       Start a REPL server on the given port")
	yellowColor.Println("  simple --help              Display this help message")
	yellowColor.Println("  simple --version           Display version information")
	cyanColor.Println("")
	cyanColor.Println("REPL COMMANDS:")
	yellowColor.Println("  :run                       Compile and run the buffered program with the tree interpreter")
	yellowColor.Println("  :smlrun                    Compile the buffered program to SML and run it on the Simpletron VM")
	yellowColor.Println("  :tokens                    Show the token stream for the buffered program")
	yellowColor.Println("  :ast                       Show the parsed line->statement map")
	yellowColor.Println("  :sml, :disasm              Compile the buffered program to SML and show its disassembly")
	yellowColor.Println("  :mem                       Show variable/memory state from the last run")
	yellowColor.Println("  :reset                     Clear the buffered program")
	yellowColor.Println("  :exit                      Exit the REPL")
}

func showVersion() {
	cyanColor.Println("Simple/SML toolchain")
	cyanColor.Printf("Version: %s\n", VERSION)
	cyanColor.Printf("License: %s\n", LICENCE)
	cyanColor.Printf("Author : %s\n", AUTHOR)
}

func startServer(port string) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to start server on port %s: %v\n", port, err)
		os.Exit(1)
	}
	cyanColor.Printf("Simple/SML REPL server listening on :%s\n", port)
	defer listener.Close()

	for {
		conn, err := listener.Accept()
		if err != nil {
			redColor.Fprintf(os.Stderr, "[SERVER ERROR] failed to accept connection: %v\n", err)
			continue
		}
		go handleClient(conn)
	}
}

func handleClient(conn net.Conn) {
	defer conn.Close()
	cyanColor.Printf("new client connected from %s\n", conn.RemoteAddr())
	repler := NewRepl(BANNER, VERSION, AUTHOR, LINE, LICENCE, PROMPT)
	repler.Start(conn, conn)
	cyanColor.Printf("client disconnected from %s\n", conn.RemoteAddr())
}
