// Command ajimu runs the interpreter as a file evaluator or an interactive
// REPL, grounded on the teacher's own REPL()/getPrompt/doPrompt shape in
// interp/interp.go: a signal-aware read loop that waits for a complete,
// balanced expression before handing it to Eval.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/ajimu-go/ajimu"
)

func main() {
	input := flag.String("input", "", "path to a source file to evaluate, then exit")
	color := flag.String("color", "auto", "prompt color: auto, yes, or no")
	flag.Parse()

	interp := ajimu.New(ajimu.Options{Stdout: os.Stdout, Stderr: os.Stderr})

	if *input != "" {
		if _, err := interp.EvalFile(*input); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	runREPL(interp, useColor(*color))
}

func useColor(mode string) bool {
	switch mode {
	case "yes":
		return true
	case "no":
		return false
	default: // "auto"
		fi, err := os.Stdout.Stat()
		return err == nil && (fi.Mode()&os.ModeCharDevice) != 0
	}
}

// runREPL reads balanced top-level forms from stdin, one at a time,
// evaluating each as it completes. Ctrl-C is caught through signal.Notify,
// as in the teacher's REPL(), so it does not kill the process; it is
// otherwise ignored and does not interrupt a pending read.
func runREPL(interp *ajimu.Interpreter, color bool) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	scanner := bufio.NewScanner(os.Stdin)
	var buf string
	depth := 0

	for {
		fmt.Fprint(os.Stdout, prompt(depth, color))
		if !scanner.Scan() {
			fmt.Fprintln(os.Stdout)
			return
		}
		line := scanner.Text()
		buf += line + "\n"
		depth += parenDelta(line)

		if depth > 0 {
			continue
		}
		if depth < 0 {
			fmt.Fprintln(os.Stderr, "syntax: unbalanced parens")
			buf, depth = "", 0
			continue
		}

		result, err := interp.EvalString(buf)
		buf, depth = "", 0
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintln(os.Stdout, "=>", interp.Display(result))
	}
}

func prompt(depth int, color bool) string {
	p := "ajimu> "
	if depth > 0 {
		p = "  ...  "
	}
	if color {
		return "\033[36m" + p + "\033[0m"
	}
	return p
}

// parenDelta counts net paren depth change in line, ignoring parens inside
// string literals and line comments.
func parenDelta(line string) int {
	delta := 0
	inString := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case inString:
			if c == '\\' {
				i++
			} else if c == '"' {
				inString = false
			}
		case c == ';':
			return delta
		case c == '"':
			inString = true
		case c == '(' || c == '[':
			delta++
		case c == ')' || c == ']':
			delta--
		}
	}
	return delta
}
