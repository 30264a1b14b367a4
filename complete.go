package main

import (
	"sort"
	"strings"

	"github.com/nf/zxprobe/zx"
)

// words is a sorted list of completion candidates.
type words []string

func newWords(ws ...string) words {
	s := append(words(nil), ws...)
	sort.Strings(s)
	return s
}

func (w words) withPrefix(prefix string) (ws []string) {
	i := sort.SearchStrings(w, prefix)
	for ; i < len(w) && strings.HasPrefix(w[i], prefix); i++ {
		ws = append(ws, w[i])
	}
	return ws
}

var (
	commandWords = newWords("key", "compound", "joy", "mouse", "ear", "sync",
		"step", "print", "expect", "cursor", "screen", "reset", "exit")
	mouseWords = newWords("move", "button", "wheel")
	argWords   = map[string]words{
		"key":      keyWords(),
		"compound": compoundWords(),
		"joy":      joyWords(),
		"ear":      newWords("on", "off"),
	}
)

func keyWords() words {
	var ws []string
	for i := 0; i < zx.NumKeys; i++ {
		ws = append(ws, zx.Key(i).String())
	}
	return newWords(ws...)
}

func compoundWords() words {
	var ws []string
	for i := 0; i < zx.NumCompoundKeys; i++ {
		ws = append(ws, zx.CompoundKey(i).String())
	}
	return newWords(ws...)
}

func joyWords() words {
	var ws []string
	for _, k := range zx.JoyKeys {
		ws = append(ws, k.String())
	}
	return newWords(ws...)
}

func buttonWords() words {
	var ws []string
	for _, b := range zx.MouseButtons {
		ws = append(ws, b.String())
	}
	return newWords(ws...)
}

// complete returns the completions of a partial command line.
func complete(t string) (entries []string) {
	f := strings.Fields(t)
	if strings.HasSuffix(t, " ") {
		f = append(f, "")
	}
	switch len(f) {
	case 0:
		return nil
	case 1:
		return commandWords.withPrefix(f[0])
	}
	var (
		head = strings.Join(f[:len(f)-1], " ") + " "
		last = f[len(f)-1]
		ws   words
	)
	switch {
	case f[0] == "mouse" && len(f) == 2:
		ws = mouseWords
	case f[0] == "mouse" && len(f) == 3 && f[1] == "button":
		ws = buttonWords()
	case f[0] == "mouse" && len(f) == 3 && f[1] == "wheel":
		ws = newWords("up", "down")
	case len(f) == 2:
		ws = argWords[f[0]]
	case len(f) == 3 && (f[0] == "key" || f[0] == "compound" || f[0] == "joy"):
		ws = newWords("down", "up")
	case len(f) == 4 && f[0] == "mouse" && f[1] == "button":
		ws = newWords("down", "up")
	}
	for _, w := range ws.withPrefix(last) {
		entries = append(entries, head+w)
	}
	return entries
}
