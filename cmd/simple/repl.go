/*
File    : simplesml/cmd/simple/repl.go

Repl implements the Read-Eval-Print Loop for the Simple/SML toolchain. Unlike
a single-expression-per-line REPL, a Simple program spans many numbered
lines, so the REPL buffers typed lines and only compiles/runs them on an
explicit meta-command — ":run", ":smlrun", ":tokens", ":ast", ":sml",
":disasm", ":mem", ":reset", ":exit".
*/
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/akashmaji946/simplesml"
	"github.com/akashmaji946/simplesml/interp"
	"github.com/akashmaji946/simplesml/ioline"
	"github.com/akashmaji946/simplesml/sml"
	"github.com/akashmaji946/simplesml/vm"
	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

var (
	blueColor   = color.New(color.FgBlue)
	greenColor  = color.New(color.FgGreen)
	cyanReplCol = color.New(color.FgCyan)
)

// Repl holds the configuration for one interactive session.
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	License string
	Prompt  string
}

// NewRepl creates a new Repl instance.
func NewRepl(banner, version, author, line, license, prompt string) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, License: license, Prompt: prompt}
}

// PrintBannerInfo prints the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanReplCol.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author+" | License: "+r.License)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanReplCol.Fprintf(writer, "%s\n", "Type numbered Simple lines, then :run, :smlrun, or :exit.")
	cyanReplCol.Fprintf(writer, "%s\n", "Type :help to see every meta-command.")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start begins the REPL main loop: each line either extends the buffered
// program, or — if it starts with ':' — runs a meta-command against it.
func (r *Repl) Start(reader io.Reader, writer io.Writer) {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	sess := newSession(reader)

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good bye!\n"))
			break
		}

		line = strings.Trim(line, " \t\r\n")
		if line == "" {
			continue
		}
		rl.SaveHistory(line)

		if strings.HasPrefix(line, ":") {
			if !sess.command(writer, line) {
				writer.Write([]byte("Good bye!\n"))
				break
			}
			continue
		}

		sess.addLine(line)
	}
}

// session holds one REPL's buffered source and the state left over from
// its last run, for the ":mem" command.
type session struct {
	lines      []string
	reader     io.Reader
	lastVars   map[string]int
	lastMemory *sml.Image
}

func newSession(reader io.Reader) *session {
	return &session{reader: reader}
}

func (s *session) addLine(line string) {
	s.lines = append(s.lines, line)
}

func (s *session) source() string {
	return strings.Join(s.lines, "\n") + "\n"
}

// command handles one ":"-prefixed meta-command. It returns false when the
// session should end.
func (s *session) command(w io.Writer, line string) bool {
	switch strings.TrimSpace(line) {
	case ":exit", ":quit":
		return false

	case ":help":
		cyanReplCol.Fprintln(w, "commands: :run :smlrun :tokens :ast :sml :disasm :mem :reset :exit")

	case ":reset":
		s.lines = nil
		s.lastVars = nil
		s.lastMemory = nil
		cyanReplCol.Fprintln(w, "buffer cleared")

	case ":tokens":
		s.showTokens(w)

	case ":ast":
		s.showAST(w)

	case ":sml":
		s.showSML(w)

	case ":disasm":
		s.runSML(w, true)

	case ":run":
		s.runInterp(w)

	case ":smlrun":
		s.runSML(w, false)

	case ":mem":
		s.showMem(w)

	default:
		redColor.Fprintf(w, "unknown command %q; type :help\n", line)
	}
	return true
}

func (s *session) showTokens(w io.Writer) {
	tokens, _, err := simplesml.Compile(s.source())
	if err != nil && tokens == nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	for _, t := range tokens {
		fmt.Fprintln(w, t.String())
	}
}

func (s *session) showAST(w io.Writer) {
	_, program, err := simplesml.Compile(s.source())
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		if program == nil {
			return
		}
	}
	for _, n := range program.Order {
		fmt.Fprintf(w, "%d: %#v\n", n, program.Lines[n])
	}
}

func (s *session) showSML(w io.Writer) {
	_, program, err := simplesml.Compile(s.source())
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	img, err := sml.New(program).Compile()
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	fmt.Fprint(w, sml.Disassemble(img))
}

func (s *session) runInterp(w io.Writer) {
	_, program, err := simplesml.Compile(s.source())
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	machine := interp.New(program)
	in := ioline.NewChannel(bufio.NewScanner(s.reader), 60*time.Second)
	if runErr := machine.Run(context.Background(), in, w); runErr != nil {
		redColor.Fprintf(w, "%s\n", runErr)
	}
	vars := machine.Vars().Snapshot()
	s.lastVars = vars
	s.lastMemory = nil
}

func (s *session) runSML(w io.Writer, disasmOnly bool) {
	_, program, err := simplesml.Compile(s.source())
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	img, err := sml.New(program).Compile()
	if err != nil {
		redColor.Fprintf(w, "%s\n", err)
		return
	}
	if disasmOnly {
		fmt.Fprint(w, sml.Disassemble(img))
		return
	}
	machine := vm.New(img)
	in := ioline.NewChannel(bufio.NewScanner(s.reader), 60*time.Second)
	if runErr := machine.Run(context.Background(), in, w); runErr != nil {
		redColor.Fprintf(w, "%s\n", runErr)
	}
	mem := machine.Memory()
	s.lastMemory = &mem
	s.lastVars = nil
}

func (s *session) showMem(w io.Writer) {
	switch {
	case s.lastVars != nil:
		for name, val := range s.lastVars {
			fmt.Fprintf(w, "%s = %d\n", name, val)
		}
	case s.lastMemory != nil:
		fmt.Fprint(w, sml.Disassemble(*s.lastMemory))
	default:
		cyanReplCol.Fprintln(w, "nothing run yet")
	}
}
