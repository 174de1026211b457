// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package common

import (
	"io"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	colorable "github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// NewLogger returns a logrus entry writing prefixed, timestamped lines to a
// color capable stdout. The prefix field is set to name so drivers sharing
// a process can be told apart.
func NewLogger(name string, level logrus.Level) *logrus.Entry {
	return newLogger(colorable.NewColorableStdout(), name, level)
}

func newLogger(w io.Writer, name string, level logrus.Level) *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(level)
	f := new(prefixed.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05"
	f.FullTimestamp = true
	logger.SetFormatter(f)
	return logger.WithField("prefix", name)
}
