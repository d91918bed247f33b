package fuzztests

import (
	"context"
	"testing"
	"time"

	"lowerjs/internal/ast"
	"lowerjs/internal/diag"
	"lowerjs/internal/modules"
	"lowerjs/internal/modules/amd"
	"lowerjs/internal/modules/commonjs"
	"lowerjs/internal/parser"
	"lowerjs/internal/printer"
	"lowerjs/internal/source"
)

// parseTimeout bounds a single parse; longer runs are reported as hangs.
const parseTimeout = 5 * time.Second

func parse(name string, input []byte) (*ast.Program, uint) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, input))
	res := parser.ParseFile(file, parser.Options{
		MaxErrors: 128,
		Reporter:  diag.BagReporter{Bag: diag.NewBag(128)},
	})
	return res.Program, res.Errors
}

func FuzzParserBuildsAST(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			prog, _ := parse("fuzz.js", input)
			if prog == nil {
				t.Error("parser returned no program")
			}
		}()
		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzLoweringReparses lowers every module that parses cleanly to both
// output formats and parses the printed result again.
func FuzzLoweringReparses(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		if _, errs := parse("fuzz.js", input); errs > 0 {
			return
		}
		cfg := modules.DefaultConfig()
		lowered := map[string]func(*ast.Program) (*ast.Program, error){
			"commonjs": func(p *ast.Program) (*ast.Program, error) {
				return commonjs.Transform(p, commonjs.Options{Config: cfg})
			},
			"amd": func(p *ast.Program) (*ast.Program, error) {
				return amd.Transform(p, amd.Options{Config: cfg})
			},
		}
		for name, lower := range lowered {
			// Transform consumes its input
			prog, _ := parse("fuzz.js", input)
			out, err := lower(prog)
			if err != nil {
				continue
			}
			code := printer.Print(out, printer.Options{})
			if _, errs := parse("out.js", []byte(code)); errs > 0 {
				t.Fatalf("%s output does not parse:\ninput: %q\noutput:\n%s", name, truncateForLog(input, 200), code)
			}
		}
	})
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
