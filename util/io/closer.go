package io

import log "github.com/sirupsen/logrus"

// Closer is anything the server releases on shutdown, such as the access log writer
type Closer interface {
	Close() error
}

// Close releases c for use in defer statements. A failure is only worth a warning at that point.
func Close(c Closer) {
	if err := c.Close(); err != nil {
		log.WithError(err).Warnf("failed to release %T", c)
	}
}
