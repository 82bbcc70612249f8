package cmd

import (
	"github.com/sirupsen/logrus"
)

func (c *cli) logger() *logrus.Logger {
	log := logrus.New()

	log.Level = logrus.WarnLevel
	if c.verbose {
		log.Level = logrus.DebugLevel
	}

	log.Out = c.streams.Err

	return log
}
