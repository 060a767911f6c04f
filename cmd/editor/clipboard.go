package main

import (
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

// osClipboard mirrors editor clips to the system clipboard as map JSON. It
// turns into a no-op when the platform clipboard cannot be initialised.
type osClipboard struct {
	log       logrus.FieldLogger
	available bool
	// last is what we wrote, so pastes of our own clip skip the JSON round trip.
	last []byte
}

func newOSClipboard(log logrus.FieldLogger) *osClipboard {
	c := &osClipboard{log: log}
	if err := clipboard.Init(); err != nil {
		log.WithError(err).Warn("editor: system clipboard unavailable, copies stay inside the editor")
		return c
	}
	c.available = true
	return c
}

func (c *osClipboard) Write(data []byte) {
	if !c.available || len(data) == 0 {
		return
	}
	c.last = data
	clipboard.Write(clipboard.FmtText, data)
}

// Read returns clipboard text that was not written by this editor, or nil.
func (c *osClipboard) Read() []byte {
	if !c.available {
		return nil
	}
	data := clipboard.Read(clipboard.FmtText)
	if len(data) == 0 || string(data) == string(c.last) {
		return nil
	}
	return data
}
