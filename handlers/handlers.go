// Package handlers contains the gin HTTP handlers for the dashboard pages
// and the JSON API.
package handlers

import (
	"github.com/sirupsen/logrus"

	"newsdesk/config"
	"newsdesk/news"
	"newsdesk/report"
	"newsdesk/tasks"
)

var (
	cfg       *config.Config
	fetcher   *news.Fetcher
	generator *report.Generator
	queue     tasks.Queue
	log       *logrus.Entry
)

// Init wires the shared services into the handler package. Must be called
// once before routes are registered.
func Init(c *config.Config, f *news.Fetcher, g *report.Generator, q tasks.Queue, l *logrus.Entry) {
	cfg = c
	fetcher = f
	generator = g
	queue = q
	if l == nil {
		l = logrus.NewEntry(logrus.StandardLogger())
	}
	log = l
}
