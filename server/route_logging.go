package server

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	ansiRed     = "\033[31m"
	ansiGreen   = "\033[32m"
	ansiYellow  = "\033[33m"
	ansiBlue    = "\033[34m"
	ansiMagenta = "\033[35m"
	ansiCyan    = "\033[36m"
	ansiGray    = "\033[90m"
	ansiReset   = "\033[0m"
)

// methodLabel pads and colours an HTTP method for DEV route logs.
func methodLabel(method string) string {
	colour := ansiGray
	switch method {
	case "GET":
		colour = ansiGreen
	case "POST":
		colour = ansiBlue
	case "PUT":
		colour = ansiCyan
	case "DELETE":
		colour = ansiYellow
	case "PATCH":
		colour = ansiMagenta
	}
	return colour + fmt.Sprintf(" %-7s", method) + ansiReset
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", methodLabel(method), path)
}

func logError(method, path, message string) {
	log.Error().Msgf("[%-19s] %s %s", methodLabel(method), path, ansiRed+message+ansiReset)
}
