package main

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/howeyc/fsnotify"

	"github.com/nf/zxprobe/zx"
)

// devMode runs the host script against a fresh session every time the
// script file changes, and accepts further commands from the monitor.
func devMode(program, scriptFile string, cfg zx.Config) error {
	scriptFile = filepath.Clean(scriptFile)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Watch(filepath.Dir(scriptFile)); err != nil {
		return err
	}

	mon := newMonitor()
	log.SetPrefix("")
	log.SetOutput(mon.log)
	done := make(chan error, 1)
	go func() { done <- mon.Run() }()
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("zxprobe: ")
	}()

	var s *session
	defer func() {
		if s != nil {
			s.close()
		}
	}()

	run := time.After(1 * time.Millisecond)
	for {
		select {
		case <-run:
			cmds, err := readScript(scriptFile)
			if err != nil {
				log.Printf("dev: %v", err)
				mon.update(s, err)
				break
			}
			if s != nil {
				s.close()
				log.Printf("dev: reset")
			}
			s, err = newSession(program, cfg, mon.out)
			if err != nil {
				return err
			}
			log.Printf("dev: run %s", filepath.Base(scriptFile))
			err = runScript(s, cmds)
			if err != nil {
				log.Printf("dev: %v", err)
			} else {
				log.Printf("dev: ok")
			}
			mon.update(s, err)

		case <-mon.reset:
			run = time.After(1 * time.Millisecond)

		case text := <-mon.cmds:
			if s == nil {
				log.Printf("dev: no session")
				break
			}
			f, err := parseCommand(text)
			if err == nil {
				err = f(s)
			}
			if err != nil {
				log.Printf("%s: %v", text, err)
			}
			mon.update(s, err)

		case ev := <-watcher.Event:
			if ev.Name == scriptFile && !ev.IsAttrib() {
				run = time.After(100 * time.Millisecond)
			}

		case err := <-watcher.Error:
			log.Printf("dev: watcher: %v", err)

		case err := <-done:
			return err
		}
	}
}
