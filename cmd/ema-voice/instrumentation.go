package main

import "go.opentelemetry.io/contrib/bridges/otelslog"

const scopeName = "github.com/koscakluka/ema-voice/cmd/ema-voice"

var logger = otelslog.NewLogger(scopeName)
