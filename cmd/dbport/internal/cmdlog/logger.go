// Copyright 2021-present The Atlas Authors. All rights reserved.
// This source code is licensed under the Apache 2.0 license found
// in the LICENSE file in the root directory of this source tree.

package cmdlog

import (
	"io"

	"ariga.io/dbport/sql/tabular"

	"github.com/sirupsen/logrus"
)

// DefaultLevel is the level used when none is configured.
const DefaultLevel = "warn"

// NewLogger returns a logger writing text entries to w at the given level.
func NewLogger(w io.Writer, level string) (*logrus.Logger, error) {
	if level == "" {
		level = DefaultLevel
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	return l, nil
}

// LogSkipped logs each line the decoder dropped.
func LogSkipped(l logrus.FieldLogger, file string, skipped []*tabular.FormatError) {
	for _, s := range skipped {
		l.WithFields(logrus.Fields{
			"file":   file,
			"line":   s.Line,
			"reason": s.Msg,
		}).Warn("skipped malformed line")
	}
}
