// Command zxprobe runs the Spectrum peripheral test programs against an
// emulated set of devices and drives them from a host script.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/nf/zxprobe/zx"
)

func main() {
	log.SetPrefix("zxprobe: ")
	log.SetFlags(0)

	var (
		guiFlag     = flag.Bool("gui", false, "show the screen in a window and feed it mouse and key events")
		devFlag     = flag.Bool("dev", false, "enable developer mode (re-run the script whenever it changes)")
		timeoutFlag = flag.Duration("timeout", zx.DefaultSyncTimeout, "how long to wait for the guest to respond")
		traceFlag   = flag.Bool("trace", false, "log recent port accesses when the guest times out")
		pngFlag     = flag.String("png", "", "write the screen to `file` after the script has run")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-gui] [-png file] <program> [script]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "       %s -dev <program> <script>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "programs: %s\n", strings.Join(programNames, ", "))
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() < 1 || flag.NArg() > 2 {
		flag.Usage()
	}
	program, scriptFile := flag.Arg(0), flag.Arg(1)

	cfg := zx.DefaultConfig()
	cfg.SyncTimeout = *timeoutFlag
	cfg.Trace = *traceFlag

	if *devFlag {
		if scriptFile == "" || *guiFlag {
			flag.Usage()
		}
		if err := devMode(program, scriptFile, cfg); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := run(program, scriptFile, cfg, *guiFlag, *pngFlag); err != nil {
		log.Fatal(err)
	}
}

func run(program, scriptFile string, cfg zx.Config, gui bool, pngFile string) error {
	s, err := newSession(program, cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer s.close()

	if gui {
		if err := runGUI(s); err != nil {
			return err
		}
	} else {
		var cmds []command
		if scriptFile != "" {
			cmds, err = readScript(scriptFile)
		} else {
			cmds, err = parseScript(strings.NewReader(defaultScripts[program]))
		}
		if err != nil {
			return err
		}
		if err := runScript(s, cmds); err != nil {
			return err
		}
	}

	if pngFile != "" {
		f, err := os.Create(pngFile)
		if err != nil {
			return err
		}
		if err := s.m.Screen().WritePNG(f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	return nil
}

func runGUI(s *session) error {
	var (
		exit = make(chan bool)
		once sync.Once
	)
	g := zx.NewGUI(s.m, func() {
		if err := s.frame(); err != nil {
			if !errors.Is(err, zx.ErrExited) {
				log.Print(err)
			}
			once.Do(func() { close(exit) })
		}
	})
	return g.Run(exit)
}
