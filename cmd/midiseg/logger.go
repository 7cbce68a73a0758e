package main

import "go.uber.org/zap"

var segLog = zap.NewNop()

func enableDebugLogging(l *zap.Logger) {
	segLog = l
}
