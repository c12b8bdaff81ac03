package handler

import (
	"time"

	"github.com/OumaCavin/DataLinkCRM/pkg/config"
)

var (
	cfg *config.Config
	loc = time.UTC
)

// Init stores the application configuration for the handler package. Site
// identity and the reporting timezone come from here instead of globals.
func Init(c *config.Config) {
	cfg = c
	loc = c.Location()
}
