// Command shapecli is an interactive front end for the shaping pipeline:
// load a font, pick a script/language, and shape runs of text, printing
// the resulting glyph sequence. It exists to exercise the package
// end-to-end, the way npillmayer/opentype's otcli exercises its own
// table-navigation API.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"
	"golang.org/x/text/language"

	"github.com/complexscript/shaping/font"
	"github.com/complexscript/shaping/internal/trace"
	"github.com/complexscript/shaping/shape"
)

func tracer() *trace.Tracer { return trace.Select("shapecli") }

func main() {
	initDisplay()

	fontPath := flag.String("font", "", "path to an OpenType font file")
	tlevel := flag.String("trace", "Error", "trace level [Off|Error|Info|Debug]")
	flag.Parse()

	switch strings.ToLower(*tlevel) {
	case "debug":
		tracer().SetTraceLevel(trace.LevelDebug)
	case "info":
		tracer().SetTraceLevel(trace.LevelInfo)
	case "error":
		tracer().SetTraceLevel(trace.LevelError)
	default:
		tracer().SetTraceLevel(trace.LevelOff)
	}

	repl, err := readline.New("shape > ")
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer repl.Close()

	sess := &session{
		repl:     repl,
		cache:    shape.NewPatternCache(),
		script:   font.ScriptDFLT,
		language: language.English,
	}
	if *fontPath != "" {
		if err := sess.loadFont(*fontPath); err != nil {
			pterm.Error.Println(err)
			os.Exit(2)
		}
	}

	pterm.Info.Println("Welcome to shapecli. Type 'help' for commands, <ctrl>D to quit.")
	sess.run()
}

func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{Text: " i ", Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)}
	pterm.Error.Prefix = pterm.Prefix{Text: " ! ", Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack)}
}

type session struct {
	repl     *readline.Instance
	cache    *shape.PatternCache
	f        *font.Font
	fontPath string
	script   font.Tag
	language language.Tag
	backward bool
}

func (s *session) run() {
	for {
		line, err := s.repl.Readline()
		if err != nil { // io.EOF on ctrl-D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if err := s.dispatch(line); err != nil {
			if err == errExit {
				break
			}
			pterm.Error.Println(err)
		}
	}
	pterm.Info.Println("Good bye!")
}

func (s *session) dispatch(line string) error {
	fields := strings.SplitN(line, " ", 2)
	cmd := strings.ToLower(fields[0])
	var arg string
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	switch cmd {
	case "help":
		printHelp()
	case "quit", "exit":
		return errExit
	case "load":
		return s.loadFont(arg)
	case "script":
		s.script = font.MakeTag(pad4(arg)[0], pad4(arg)[1], pad4(arg)[2], pad4(arg)[3])
		tracer().Infof("script set to %s", s.script)
	case "lang":
		tag, err := language.Parse(arg)
		if err != nil {
			return err
		}
		s.language = tag
	case "backward":
		b, err := strconv.ParseBool(arg)
		if err != nil {
			return err
		}
		s.backward = b
	case "shape":
		return s.shapeText(arg)
	default:
		pterm.Error.Printf("unknown command: %s (try 'help')\n", cmd)
	}
	return nil
}

var errExit = fmt.Errorf("exit")

func pad4(s string) [4]byte {
	var out [4]byte
	for i := range out {
		out[i] = ' '
	}
	for i := 0; i < len(s) && i < 4; i++ {
		out[i] = s[i]
	}
	return out
}

func (s *session) loadFont(path string) error {
	if path == "" {
		return fmt.Errorf("usage: load <path>")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		tracer().Errorf("cannot read font %s: %s", path, err)
		return err
	}
	f, err := font.ParseFont(data)
	if err != nil {
		tracer().Errorf("cannot parse font %s: %s", path, err)
		return err
	}
	s.f = f
	s.fontPath = path
	tracer().Infof("loaded font %s", path)
	pterm.Success.Printf("loaded %s\n", path)
	return nil
}

func (s *session) shapeText(text string) error {
	if s.f == nil {
		return fmt.Errorf("no font loaded; use 'load <path>' first")
	}
	if text == "" {
		return fmt.Errorf("usage: shape <text>")
	}
	album, err := shape.Shape(s.f, []rune(text), shape.Options{
		Script:   s.script,
		Language: s.language,
		Backward: s.backward,
		Cache:    s.cache,
	})
	if err != nil {
		tracer().Errorf("shape failed: %s", err)
		return err
	}
	out := album.Finalize()
	printOutput(out)
	return nil
}

func printOutput(out *shape.Output) {
	rows := pterm.TableData{{"glyph", "cluster", "xoff", "yoff", "xadv", "yadv"}}
	for i, g := range out.Glyphs {
		rows = append(rows, []string{
			strconv.Itoa(int(g)),
			strconv.Itoa(out.GlyphToCluster[i]),
			strconv.Itoa(int(out.XOffset[i])),
			strconv.Itoa(int(out.YOffset[i])),
			strconv.Itoa(int(out.XAdvance[i])),
			strconv.Itoa(int(out.YAdvance[i])),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func printHelp() {
	pterm.Println(`
  load <path>       load an OpenType font
  script <tag>      set the OpenType script tag (e.g. arab, latn)
  lang <bcp47>      set the language (e.g. ar, en-US)
  backward <bool>   toggle textMode=Backward
  shape <text>       shape text with the current font/script/language
  quit              exit
`)
}
