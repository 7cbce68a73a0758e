package main

import "go.uber.org/zap"

var infoLog = zap.NewNop()

func enableDebugLogging(l *zap.Logger) {
	infoLog = l
}
